package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"anoa.com/userdirectory/internal/entity"
	"anoa.com/userdirectory/internal/modules/auth/repository"
	"anoa.com/userdirectory/pkg/apperror"
	"anoa.com/userdirectory/pkg/password"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserLookup is the part of the user repository the auth flow needs.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	FindByName(ctx context.Context, name string) (*entity.User, error)
}

type AuthService interface {
	// Authenticate checks the credentials and issues a new session token.
	Authenticate(ctx context.Context, username, password string) (string, error)
	// Logout revokes the token. Unknown tokens are ignored.
	Logout(ctx context.Context, token string) error
	// ResolveUser returns the owner of an active token.
	ResolveUser(ctx context.Context, token string) (*entity.User, error)
}

type Option func(*authService)

// WithClock overrides time.Now, used for expiry checks and token timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *authService) {
		s.now = now
	}
}

type authService struct {
	users  UserLookup
	tokens repository.TokenRepository
	hasher password.Hasher
	log    *slog.Logger
	now    func() time.Time

	dummyMu   sync.Mutex
	dummyHash string
}

func NewAuthService(users UserLookup, tokens repository.TokenRepository, hasher password.Hasher, log *slog.Logger, opts ...Option) AuthService {
	s := &authService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *authService) Authenticate(ctx context.Context, username, pass string) (string, error) {
	user, err := s.users.FindByName(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("find user by name: %w", err)
	}

	// A hash is always verified so a missing user costs the same as a wrong password.
	var hash string
	if user != nil {
		hash = user.Password
	} else if hash, err = s.fallbackHash(); err != nil {
		return "", err
	}
	if !s.hasher.Verify(pass, hash) || user == nil {
		s.log.InfoContext(ctx, "login failed", "username", username)
		return "", apperror.InvalidCredentials(username)
	}

	now := s.now()
	token := &entity.Token{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(entity.TokenTTL),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return "", fmt.Errorf("create token: %w", err)
	}

	s.log.InfoContext(ctx, "login succeeded", "user_id", user.ID)
	return token.Token, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	deleted, err := s.tokens.DeleteByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if deleted {
		s.log.DebugContext(ctx, "token revoked")
	}
	return nil
}

func (s *authService) ResolveUser(ctx context.Context, token string) (*entity.User, error) {
	t, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.InvalidToken(token)
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if t.ExpiredAt(s.now()) {
		return nil, apperror.TokenExpired(token)
	}

	user, err := s.users.FindByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.InvalidToken(token)
		}
		return nil, fmt.Errorf("find token owner: %w", err)
	}

	return user, nil
}

// fallbackHash is computed on first use. A failed attempt is not cached.
func (s *authService) fallbackHash() (string, error) {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyHash == "" {
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			return "", fmt.Errorf("prepare fallback password hash: %w", err)
		}
		s.dummyHash = hash
	}
	return s.dummyHash, nil
}
