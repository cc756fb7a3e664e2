package custom_errors

import "errors"

// Auth
var (
	ErrInvalidEmail         = errors.New("invalid email")
	ErrPasswordRequirements = errors.New("password requirements not met")
	ErrUserExists           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("authentication failed")
	ErrInvalidSession       = errors.New("invalid session")
	ErrSessionNotFound      = errors.New("session not found")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrPasswordHash         = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate session token")
	ErrTooManyRequests      = errors.New("too many requests")
)

// Posts
var (
	ErrPostNotFound   = errors.New("post not found")
	ErrPostValidation = errors.New("post validation failed")
)

// Infrastructure
var (
	ErrDatabaseQuery = errors.New("database query failed")
	ErrCacheMiss     = errors.New("cache miss")
	ErrMigration     = errors.New("migration failed")
)
