package session_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	ports "landing/internal/domain/ports/output"
	"landing/internal/infrastructure/outbound/repository/postgres/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SessionRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewSessionRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *SessionRepository {
	return &SessionRepository{db: db, log: log, metrics: metrics}
}

func (s *SessionRepository) observe(queryType string, start time.Time, success bool) {
	s.metrics.IncrementDatabaseQueries(queryType, success)
	s.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func (s *SessionRepository) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*model.Session, error) {
	start := time.Now()
	s.log.Debug("Creating session", slog.String("user_id", userID.String()), slog.Time("expires_at", expiresAt))

	args := pgx.NamedArgs{
		"user_id":    userID,
		"token_hash": tokenHash,
		"expires_at": expiresAt,
	}
	query := `
		INSERT INTO user_sessions (user_id, token_hash, expires_at)
		VALUES (@user_id, @token_hash, @expires_at)
		RETURNING id, user_id, token_hash, expires_at, created_at`

	var session model.Session
	err := s.db.QueryRow(ctx, query, args).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		s.observe("session_create", start, false)
		s.log.Error("Error creating session", slog.String("user_id", userID.String()), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	s.observe("session_create", start, true)
	s.log.Debug("Successfully created session", slog.String("id", session.ID.String()))
	return &session, nil
}

func (s *SessionRepository) GetValid(ctx context.Context, tokenHash string, now time.Time) (*model.SessionWithUser, error) {
	start := time.Now()

	args := pgx.NamedArgs{"token_hash": tokenHash, "now": now}
	query := `
		SELECT s.id, s.user_id, s.token_hash, s.expires_at, s.created_at,
		       u.id, u.email, u.password_hash, u.created_at
		FROM user_sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token_hash = @token_hash AND s.expires_at > @now`

	var session model.Session
	var user model.User
	err := s.db.QueryRow(ctx, query, args).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.ExpiresAt,
		&session.CreatedAt,
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		s.observe("session_get_valid", start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			s.log.Debug("No valid session for token hash")
			return nil, custom_errors.ErrSessionNotFound
		}
		s.log.Error("Error validating session", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	s.observe("session_get_valid", start, true)
	return &model.SessionWithUser{Session: &session, User: &user}, nil
}

func (s *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	start := time.Now()

	result, err := s.db.Exec(ctx, `DELETE FROM user_sessions WHERE token_hash = @token_hash`, pgx.NamedArgs{"token_hash": tokenHash})
	if err != nil {
		s.observe("session_delete", start, false)
		s.log.Error("Error deleting session", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	s.observe("session_delete", start, true)
	s.log.Debug("Deleted session", slog.Int64("rows", result.RowsAffected()))
	return nil
}

func (s *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()

	result, err := s.db.Exec(ctx, `DELETE FROM user_sessions WHERE expires_at <= @now`, pgx.NamedArgs{"now": now})
	if err != nil {
		s.observe("session_delete_expired", start, false)
		s.log.Error("Error deleting expired sessions", slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	s.observe("session_delete_expired", start, true)
	return result.RowsAffected(), nil
}

func (s *SessionRepository) DeleteExpiredForUser(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	start := time.Now()

	args := pgx.NamedArgs{"user_id": userID, "now": now}
	result, err := s.db.Exec(ctx, `DELETE FROM user_sessions WHERE user_id = @user_id AND expires_at <= @now`, args)
	if err != nil {
		s.observe("session_delete_expired_for_user", start, false)
		s.log.Error("Error deleting expired sessions for user",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	s.observe("session_delete_expired_for_user", start, true)
	return result.RowsAffected(), nil
}
