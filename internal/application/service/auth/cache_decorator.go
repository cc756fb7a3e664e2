package auth_service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	auth_service "landing/internal/domain/ports/input/auth"
	output "landing/internal/domain/ports/output"
	"landing/internal/domain/ports/output/cache"
)

// AuthServiceCacheDecorator serves ValidateSession from the session cache
// and evicts on Logout. Cache failures degrade to the wrapped service.
type AuthServiceCacheDecorator struct {
	service      auth_service.Service
	sessionCache cache.SessionCache
	tokens       output.TokenGenerator
	log          output.Logger
	metrics      output.MetricsProvider
}

func NewAuthServiceCacheDecorator(
	service auth_service.Service,
	sessionCache cache.SessionCache,
	tokens output.TokenGenerator,
	log output.Logger,
	metrics output.MetricsProvider,
) auth_service.Service {
	return &AuthServiceCacheDecorator{
		service:      service,
		sessionCache: sessionCache,
		tokens:       tokens,
		log:          log,
		metrics:      metrics,
	}
}

func (d *AuthServiceCacheDecorator) Register(ctx context.Context, email, password string) (*model.User, error) {
	return d.service.Register(ctx, email, password)
}

func (d *AuthServiceCacheDecorator) Login(ctx context.Context, email, password string) (*model.AuthenticatedUser, error) {
	return d.service.Login(ctx, email, password)
}

func (d *AuthServiceCacheDecorator) ValidateSession(ctx context.Context, token string) (*model.AuthenticatedUser, error) {
	if token == "" {
		return nil, custom_errors.ErrInvalidSession
	}
	tokenHash := d.tokens.Hash(token)

	cacheStart := time.Now()
	cached, err := d.sessionCache.GetSession(ctx, tokenHash)
	d.metrics.RecordCacheOperationDuration("session_get", time.Since(cacheStart))
	if err == nil {
		d.metrics.IncrementCacheHits("session")
		return &model.AuthenticatedUser{
			User:      cached.User,
			Token:     token,
			ExpiresAt: cached.Session.ExpiresAt,
		}, nil
	}

	if errors.Is(err, custom_errors.ErrCacheMiss) {
		d.metrics.IncrementCacheMisses("session")
	} else {
		d.log.Warn("Failed to get session from cache", slog.String("error", err.Error()))
	}

	result, err := d.service.ValidateSession(ctx, token)
	if err != nil {
		return nil, err
	}

	entry := &model.SessionWithUser{
		Session: &model.Session{
			UserID:    result.User.ID,
			TokenHash: tokenHash,
			ExpiresAt: result.ExpiresAt,
		},
		User: result.User,
	}

	setStart := time.Now()
	err = d.sessionCache.SetSession(ctx, tokenHash, entry)
	d.metrics.RecordCacheOperationDuration("session_set", time.Since(setStart))
	if err != nil {
		d.log.Warn("Failed to cache session",
			slog.String("user_id", result.User.ID.String()),
			slog.String("error", err.Error()))
		return result, nil
	}

	// A Logout that finished between the lookup above and the cache write
	// has already evicted, so the fresh entry is checked against the store.
	if _, err := d.service.ValidateSession(ctx, token); err != nil {
		d.evict(ctx, tokenHash)
		return nil, err
	}

	return result, nil
}

func (d *AuthServiceCacheDecorator) Logout(ctx context.Context, token string) error {
	if err := d.service.Logout(ctx, token); err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	d.evict(ctx, d.tokens.Hash(token))
	return nil
}

func (d *AuthServiceCacheDecorator) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return d.service.PurgeExpiredSessions(ctx)
}

func (d *AuthServiceCacheDecorator) evict(ctx context.Context, tokenHash string) {
	deleteStart := time.Now()
	if err := d.sessionCache.DeleteSession(ctx, tokenHash); err != nil {
		d.log.Warn("Failed to evict session from cache", slog.String("error", err.Error()))
	}
	d.metrics.RecordCacheOperationDuration("session_delete", time.Since(deleteStart))
}
