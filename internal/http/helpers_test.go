package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/chniak97436/blog-api/internal/domain"
	"github.com/chniak97436/blog-api/internal/service"
)

type mockUserRepo struct {
	mu           sync.Mutex
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.usersByEmail[user.Email]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.usersByID[id], nil
}

type mockPostRepo struct {
	mu    sync.Mutex
	posts map[string]domain.Post
	users *mockUserRepo
}

func newMockPostRepo(users *mockUserRepo) *mockPostRepo {
	return &mockPostRepo{
		posts: make(map[string]domain.Post),
		users: users,
	}
}

func (m *mockPostRepo) Create(_ context.Context, post domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post.Author = nil
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepo) GetByID(ctx context.Context, id string) (domain.Post, error) {
	m.mu.Lock()
	post, ok := m.posts[id]
	m.mu.Unlock()
	if !ok {
		return domain.Post{}, pgx.ErrNoRows
	}
	if author, err := m.users.GetByID(ctx, post.AuthorID); err == nil {
		summary := author.Summary()
		post.Author = &summary
	}
	return post, nil
}

func (m *mockPostRepo) List(ctx context.Context) ([]domain.Post, error) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.posts))
	for id := range m.posts {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var posts []domain.Post
	for _, id := range ids {
		post, err := m.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (m *mockPostRepo) Update(_ context.Context, post domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[post.ID]; !ok {
		return pgx.ErrNoRows
	}
	post.Author = nil
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.posts, id)
	return nil
}

type testEnv struct {
	router *gin.Engine
	users  *mockUserRepo
	posts  *mockPostRepo
	jwtSvc *service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	users := newMockUserRepo()
	posts := newMockPostRepo(users)

	jwtSvc := service.NewTokenService("secret", time.Hour)
	hasher := service.NewPasswordHasher(4)
	userSvc := service.NewUserService(logger, users, hasher, nil, nil)
	postSvc := service.NewPostService(posts, users)

	authH := NewAuthHandler(logger, userSvc, jwtSvc)
	postH := NewPostHandler(logger, postSvc)
	router := NewRouter(logger, authH, postH, jwtSvc, nil)

	return &testEnv{
		router: router,
		users:  users,
		posts:  posts,
		jwtSvc: jwtSvc,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func (e *testEnv) register(t *testing.T, email, password, name string) (user map[string]any, token string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": password,
		"name":     name,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%s)", email, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	user, _ = body["user"].(map[string]any)
	token, _ = body["token"].(string)
	if user == nil || token == "" {
		t.Fatalf("register %s: missing user or token in %v", email, body)
	}
	return user, token
}
