package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
	repo "github.com/pixelpursuit/pixelpursuit-api/internal/domain/repository"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/apperror"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/helpers"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	IssueToken(c helpers.TokenClaims) (string, time.Time, error)
}

type AuthService struct {
	Repo   repo.UserRepository
	Tokens TokenIssuer
	Cost   int
	Logger *logrus.Logger

	// dummyHash is compared against when the email is unknown so both login
	// failures cost one bcrypt comparison.
	dummyHash string
}

func NewAuthService(repo repo.UserRepository, tokens TokenIssuer, cost int, logger *logrus.Logger) (*AuthService, error) {
	dummy, err := helpers.HashPassword("pixelpursuit-dummy-password", cost)
	if err != nil {
		return nil, err
	}
	return &AuthService{Repo: repo, Tokens: tokens, Cost: cost, Logger: logger, dummyHash: dummy}, nil
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *entity.User `json:"user"`
}

// Register creates a user with a normalized email and a hashed password.
// The existence check and the insert are separate round-trips; a concurrent
// duplicate is caught by the store's unique constraint.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := entity.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrMissingLoginFields
	}
	if len(in.Password) > helpers.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrEmailTaken
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, apperror.Internal(err)
	}

	hash, err := helpers.HashPassword(in.Password, s.Cost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	u := &entity.User{
		Email:    email,
		Password: hash,
		Role:     entity.RegistrationRole(in.Role),
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = &name
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken.Wrap(err)
		}
		return nil, apperror.Internal(err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
	}
	return u, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = entity.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingLoginFields
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		helpers.CompareHashAndPassword(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.Tokens.IssueToken(helpers.TokenClaims{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		}
		return nil, apperror.Internal(err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Me loads the account behind an authenticated principal.
func (s *AuthService) Me(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Internal(err)
	}
	return u, nil
}
