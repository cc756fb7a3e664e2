package user_repository_postgres

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
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type UserRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewUserRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *UserRepository {
	return &UserRepository{db: db, log: log, metrics: metrics}
}

func (u *UserRepository) observe(queryType string, start time.Time, success bool) {
	u.metrics.IncrementDatabaseQueries(queryType, success)
	u.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func (u *UserRepository) Create(ctx context.Context, email, passwordHash string) (*model.User, error) {
	start := time.Now()
	u.log.Debug("Creating new user", slog.String("email", email))

	args := pgx.NamedArgs{
		"email":         email,
		"password_hash": passwordHash,
	}
	query := `
		INSERT INTO users (email, password_hash)
		VALUES (@email, @password_hash)
		RETURNING id, email, password_hash, created_at`

	var user model.User
	err := u.db.QueryRow(ctx, query, args).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		u.observe("user_create", start, false)
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == uniqueViolation {
			u.log.Debug("User with email already exists", slog.String("email", email))
			return nil, custom_errors.ErrUserExists
		}
		u.log.Error("Error creating user", slog.String("email", email), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	u.observe("user_create", start, true)
	u.log.Debug("Successfully created user", slog.String("id", user.ID.String()))
	return &user, nil
}

func (u *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	start := time.Now()
	u.log.Debug("Getting user by ID", slog.String("id", id.String()))

	query := `SELECT id, email, password_hash, created_at FROM users WHERE id = @id`
	user, err := u.scanOne(ctx, query, pgx.NamedArgs{"id": id})
	if err != nil {
		u.observe("user_get_by_id", start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			u.log.Debug("User not found by id", slog.String("id", id.String()))
			return nil, custom_errors.ErrUserNotFound
		}
		u.log.Error("Error getting user by id", slog.String("id", id.String()), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	u.observe("user_get_by_id", start, true)
	return user, nil
}

func (u *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	start := time.Now()
	u.log.Debug("Getting user by email", slog.String("email", email))

	query := `SELECT id, email, password_hash, created_at FROM users WHERE email = @email`
	user, err := u.scanOne(ctx, query, pgx.NamedArgs{"email": email})
	if err != nil {
		u.observe("user_get_by_email", start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			u.log.Debug("User not found by email", slog.String("email", email))
			return nil, custom_errors.ErrUserNotFound
		}
		u.log.Error("Error getting user by email", slog.String("email", email), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	u.observe("user_get_by_email", start, true)
	return user, nil
}

func (u *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	start := time.Now()

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = @email)`
	if err := u.db.QueryRow(ctx, query, pgx.NamedArgs{"email": email}).Scan(&exists); err != nil {
		u.observe("user_exists", start, false)
		u.log.Error("Error checking user existence", slog.String("email", email), slog.String("error", err.Error()))
		return false, custom_errors.ErrDatabaseQuery
	}

	u.observe("user_exists", start, true)
	return exists, nil
}

func (u *UserRepository) List(ctx context.Context, filters model.UserFilters) ([]*model.User, int, error) {
	start := time.Now()
	u.log.Debug("Listing users", slog.Any("limit", filters.Limit), slog.Any("offset", filters.Offset))

	args := pgx.NamedArgs{}
	query := `SELECT id, email, password_hash, created_at FROM users ORDER BY created_at DESC`
	if filters.Limit != nil {
		query += " LIMIT @limit"
		args["limit"] = *filters.Limit
	}
	if filters.Offset != nil {
		query += " OFFSET @offset"
		args["offset"] = *filters.Offset
	}

	rows, err := u.db.Query(ctx, query, args)
	if err != nil {
		u.observe("user_list", start, false)
		u.log.Error("Error listing users", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
			u.observe("user_list", start, false)
			u.log.Error("Error scanning user during List", slog.String("error", err.Error()))
			return nil, 0, custom_errors.ErrDatabaseQuery
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		u.observe("user_list", start, false)
		u.log.Error("Error iterating rows during List", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	var total int
	if err := u.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		u.observe("user_list", start, false)
		u.log.Error("Error counting users", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	u.observe("user_list", start, true)
	u.log.Debug("Listed users", slog.Int("count", len(users)), slog.Int("total", total))
	return users, total, nil
}

func (u *UserRepository) scanOne(ctx context.Context, query string, args pgx.NamedArgs) (*model.User, error) {
	var user model.User
	err := u.db.QueryRow(ctx, query, args).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
