package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	ports "landing/internal/domain/ports/output"
)

const sessionCacheKeyPrefix = "session:"

// SessionCache stores validated sessions keyed by token hash. Cached
// users never carry a password hash since User omits it from JSON.
type SessionCache struct {
	client *Client
	log    ports.Logger
	ttl    time.Duration
}

func NewSessionCache(client *Client, ttl time.Duration, log ports.Logger) *SessionCache {
	return &SessionCache{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func (s *SessionCache) GetSession(ctx context.Context, tokenHash string) (*model.SessionWithUser, error) {
	var cached model.SessionWithUser
	if err := s.client.Get(ctx, s.key(tokenHash), &cached); err != nil {
		if errors.Is(err, custom_errors.ErrCacheMiss) {
			s.log.Debug("Session cache miss")
			return nil, custom_errors.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get session from cache: %w", err)
	}

	if cached.Session == nil || cached.User == nil || cached.Session.IsExpired(time.Now()) {
		_ = s.client.Delete(ctx, s.key(tokenHash))
		return nil, custom_errors.ErrCacheMiss
	}

	s.log.Debug("Session cache hit", slog.String("user_id", cached.User.ID.String()))
	return &cached, nil
}

// SetSession caches the entry until the configured TTL or the session
// expiry, whichever comes first.
func (s *SessionCache) SetSession(ctx context.Context, tokenHash string, session *model.SessionWithUser) error {
	if session == nil || session.Session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	ttl := s.ttl
	if remaining := time.Until(session.Session.ExpiresAt); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, s.key(tokenHash), session, ttl); err != nil {
		return fmt.Errorf("failed to set session cache: %w", err)
	}

	s.log.Debug("Session cached", slog.Duration("ttl", ttl))
	return nil
}

func (s *SessionCache) DeleteSession(ctx context.Context, tokenHash string) error {
	if err := s.client.Delete(ctx, s.key(tokenHash)); err != nil {
		return fmt.Errorf("failed to delete session from cache: %w", err)
	}
	return nil
}

func (s *SessionCache) key(tokenHash string) string {
	return sessionCacheKeyPrefix + tokenHash
}
