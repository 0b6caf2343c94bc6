package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nfl-pickem/internal/domain/user"
	"github.com/riskibarqy/nfl-pickem/internal/platform/cache"
	idgen "github.com/riskibarqy/nfl-pickem/internal/platform/id"
	"github.com/riskibarqy/nfl-pickem/internal/platform/logging"
)

const sessionKeyPrefix = "session:"

// SessionService issues opaque bearer tokens for the fixed user roster. Users log in by
// name only.
type SessionService struct {
	userRepo user.Repository
	sessions *cache.Store
	ids      idgen.Generator
	ttl      time.Duration
	logger   *logging.Logger
}

func NewSessionService(
	userRepo user.Repository,
	sessions *cache.Store,
	ids idgen.Generator,
	ttl time.Duration,
	logger *logging.Logger,
) *SessionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SessionService{
		userRepo: userRepo,
		sessions: sessions,
		ids:      ids,
		ttl:      ttl,
		logger:   logger,
	}
}

func (s *SessionService) Login(ctx context.Context, username string) (user.Principal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Login")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" {
		return user.Principal{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	item, exists, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return user.Principal{}, fmt.Errorf("get user by username: %w", err)
	}
	if !exists {
		return user.Principal{}, fmt.Errorf("%w: unknown user %q", ErrUnauthorized, username)
	}

	token, err := s.ids.NewID()
	if err != nil {
		return user.Principal{}, fmt.Errorf("generate session token: %w", err)
	}

	principal := item.Principal(token)
	s.sessions.SetWithTTL(ctx, sessionKeyPrefix+token, principal, s.ttl)
	s.logger.InfoContext(ctx, "user logged in", "user_id", item.ID, "username", item.Username)

	return principal, nil
}

func (s *SessionService) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", ErrUnauthorized)
	}

	v, ok := s.sessions.Get(ctx, sessionKeyPrefix+token)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: session expired or unknown", ErrUnauthorized)
	}
	principal, ok := v.(user.Principal)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: malformed session", ErrUnauthorized)
	}
	return principal, nil
}

func (s *SessionService) Logout(ctx context.Context, token string) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Logout")
	defer span.End()

	s.sessions.Delete(ctx, sessionKeyPrefix+strings.TrimSpace(token))
}
