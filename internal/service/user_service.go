package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/chniak97436/blog-api/internal/domain"
	"github.com/chniak97436/blog-api/internal/email"
	"github.com/chniak97436/blog-api/internal/repository"
)

// UserService coordina reglas de negocio para usuarios.
type UserService struct {
	logger       *zap.Logger
	users        repository.UserRepository
	hasher       *PasswordHasher
	emailSender  email.Sender
	loginLimiter LoginRateLimiter
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, hasher *PasswordHasher, emailSender email.Sender, loginLimiter LoginRateLimiter) *UserService {
	if hasher == nil {
		hasher = NewPasswordHasher(defaultBcryptCost)
	}
	return &UserService{
		logger:       logger,
		users:        users,
		hasher:       hasher,
		emailSender:  emailSender,
		loginLimiter: loginLimiter,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrMissingFields      = errors.New("missing required fields")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
	ErrUserNotFound       = errors.New("user not found")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Register valida los datos, hashea la contraseña y persiste el usuario.
// El email de bienvenida se envia en segundo plano y nunca falla el alta.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)
	password := input.Password

	if emailAddr == "" || !emailPattern.MatchString(emailAddr) {
		return domain.User{}, ErrInvalidEmail
	}
	if password == "" || name == "" {
		return domain.User{}, ErrMissingFields
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	s.sendWelcomeEmail(user)

	return user, nil
}

// Authenticate responde ErrInvalidCredentials tanto para email desconocido
// como para contraseña incorrecta, sin distinguirlos.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	// El email se compara tal cual fue almacenado, sin plegar mayúsculas.
	emailAddr = strings.TrimSpace(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	if s.loginLimiter != nil && !s.loginLimiter.Allow(emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) sendWelcomeEmail(user domain.User) {
	if s.emailSender == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.emailSender.SendWelcome(ctx, user.Email, user.Name); err != nil {
			if s.logger != nil {
				s.logger.Warn("send welcome email failed", zap.Error(err), zap.String("email", user.Email))
			}
		}
	}()
}
