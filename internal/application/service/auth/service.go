package auth_service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	ports "landing/internal/domain/ports/output"
	session_repository "landing/internal/domain/ports/output/session"
	user_repository "landing/internal/domain/ports/output/user"
	"landing/internal/infrastructure/outbound/repository/postgres"

	"github.com/jackc/pgx/v5"
)

type AuthService struct {
	uow        postgres.UnitOfWork
	users      user_repository.Repository
	sessions   session_repository.Repository
	hasher     ports.PasswordHasher
	tokens     ports.TokenGenerator
	sessionTTL time.Duration
	log        ports.Logger
	metrics    ports.MetricsProvider
	now        func() time.Time
}

func NewAuthService(
	uow postgres.UnitOfWork,
	users user_repository.Repository,
	sessions session_repository.Repository,
	hasher ports.PasswordHasher,
	tokens ports.TokenGenerator,
	sessionTTL time.Duration,
	log ports.Logger,
	metrics ports.MetricsProvider,
) *AuthService {
	return &AuthService{
		uow:        uow,
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		log:        log,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (user *model.User, err error) {
	defer func() { s.metrics.IncrementAuthOperations("register", err == nil) }()

	email = model.NormalizeEmail(email)
	if !model.IsValidEmail(email) {
		s.log.Debug("Rejected registration with invalid email")
		return nil, custom_errors.ErrInvalidEmail
	}
	if !model.MeetsPasswordRequirements(password) {
		s.log.Debug("Rejected registration with weak password", slog.String("email", email))
		return nil, custom_errors.ErrPasswordRequirements
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	var txCommitted bool
	defer s.rollbackUnlessCommitted(ctx, tx, &txCommitted)

	users := tx.UserRepository()

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		s.log.Debug("User already exists", slog.String("email", email))
		return nil, custom_errors.ErrUserExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, custom_errors.ErrPasswordHash
	}

	user, err = users.Create(ctx, email, hash)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	s.log.Info("User registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Login never reveals whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (result *model.AuthenticatedUser, err error) {
	defer func() { s.metrics.IncrementAuthOperations("login", err == nil) }()

	email = model.NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Login for unknown email")
			return nil, custom_errors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		s.log.Debug("Login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, custom_errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate()
	if err != nil {
		s.log.Error("Failed to generate session token", slog.String("error", err.Error()))
		return nil, custom_errors.ErrTokenGeneration
	}

	now := s.now()
	expiresAt := now.Add(s.sessionTTL)

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	var txCommitted bool
	defer s.rollbackUnlessCommitted(ctx, tx, &txCommitted)

	sessions := tx.SessionRepository()

	purged, err := sessions.DeleteExpiredForUser(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}
	if purged > 0 {
		s.log.Debug("Purged expired sessions on login",
			slog.String("user_id", user.ID.String()),
			slog.Int64("count", purged))
	}

	session, err := sessions.Create(ctx, user.ID, s.tokens.Hash(token), expiresAt)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	s.log.Info("User logged in", slog.String("user_id", user.ID.String()))
	return &model.AuthenticatedUser{
		User:      user,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *AuthService) ValidateSession(ctx context.Context, token string) (*model.AuthenticatedUser, error) {
	if token == "" {
		return nil, custom_errors.ErrInvalidSession
	}

	found, err := s.sessions.GetValid(ctx, s.tokens.Hash(token), s.now())
	if err != nil {
		if errors.Is(err, custom_errors.ErrSessionNotFound) {
			return nil, custom_errors.ErrInvalidSession
		}
		return nil, err
	}

	return &model.AuthenticatedUser{
		User:      found.User,
		Token:     token,
		ExpiresAt: found.Session.ExpiresAt,
	}, nil
}

// Logout of an unknown or empty token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) (err error) {
	defer func() { s.metrics.IncrementAuthOperations("logout", err == nil) }()

	if token == "" {
		return nil
	}
	return s.sessions.DeleteByTokenHash(ctx, s.tokens.Hash(token))
}

func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	count, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		s.metrics.IncrementAuthOperations("purge_sessions", false)
		return 0, err
	}

	s.metrics.IncrementAuthOperations("purge_sessions", true)
	s.metrics.SetExpiredSessionsPurged(count)
	s.log.Info("Purged expired sessions", slog.Int64("count", count))
	return count, nil
}

func (s *AuthService) rollbackUnlessCommitted(ctx context.Context, tx postgres.Transaction, committed *bool) {
	if *committed || tx == nil {
		return
	}
	if err := tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			s.log.Debug("Transaction already closed during rollback", slog.String("error", err.Error()))
			return
		}
		s.log.Error("Failed to rollback transaction", slog.String("error", err.Error()))
	}
}
