package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/chniak97436/blog-api/internal/domain"
	"github.com/chniak97436/blog-api/internal/repository"
)

// PostService coordina reglas de negocio para posts.
type PostService struct {
	posts repository.PostRepository
	users repository.UserRepository
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository) *PostService {
	return &PostService{
		posts: posts,
		users: users,
	}
}

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostAuthor = errors.New("not post author")
	ErrMissingTitle  = errors.New("title and content are required")
)

type CreatePostInput struct {
	Title     string
	Content   string
	Published bool
}

type UpdatePostInput struct {
	Title     string
	Content   string
	Published bool
}

// Create asocia el post al autor del token. El autor debe seguir existiendo.
func (s *PostService) Create(ctx context.Context, authorID string, input CreatePostInput) (domain.Post, error) {
	if s.posts == nil || s.users == nil {
		return domain.Post{}, errors.New("post service not configured")
	}

	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return domain.Post{}, ErrMissingTitle
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, ErrUserNotFound
		}
		return domain.Post{}, err
	}

	now := time.Now().UTC()
	post := domain.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Published: input.Published,
		AuthorID:  author.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return domain.Post{}, err
	}

	summary := author.Summary()
	post.Author = &summary
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (domain.Post, error) {
	if s.posts == nil {
		return domain.Post{}, errors.New("post service not configured")
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	if s.posts == nil {
		return nil, errors.New("post service not configured")
	}
	return s.posts.List(ctx)
}

// Update verifica existencia antes que autoría: un post ausente es not-found,
// un post ajeno es forbidden. El orden no debe invertirse.
func (s *PostService) Update(ctx context.Context, id, callerID string, input UpdatePostInput) (domain.Post, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return domain.Post{}, ErrMissingTitle
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	if post.AuthorID != callerID {
		return domain.Post{}, ErrNotPostAuthor
	}

	post.Title = title
	post.Content = content
	post.Published = input.Published
	post.UpdatedAt = time.Now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	return post, nil
}

// Delete aplica el mismo orden existencia-antes-que-autoría que Update.
func (s *PostService) Delete(ctx context.Context, id, callerID string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != callerID {
		return ErrNotPostAuthor
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}
