package auth_service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth_service "landing/internal/application/service/auth"
	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	"landing/internal/infrastructure/logger"
	"landing/internal/infrastructure/outbound/metrics/prometheus"
	repository_memory "landing/internal/infrastructure/outbound/repository/memory"
	post_memory "landing/internal/infrastructure/outbound/repository/post/memory"
	session_memory "landing/internal/infrastructure/outbound/repository/session/memory"
	user_memory "landing/internal/infrastructure/outbound/repository/user/memory"
	"landing/internal/infrastructure/outbound/security/password"
	"landing/internal/infrastructure/outbound/security/token"
	postgres_mock "landing/mocks/postgres"
	session_repository_mock "landing/mocks/session"
	user_repository_mock "landing/mocks/user"
)

type testDeps struct {
	uow      *postgres_mock.UnitOfWork
	tx       *postgres_mock.Transaction
	users    *user_repository_mock.Repository
	sessions *session_repository_mock.Repository
	hasher   *password.BcryptHasher
	tokens   *token.Generator
}

func newTestService(t *testing.T) (*auth_service.AuthService, testDeps) {
	t.Helper()
	deps := testDeps{
		uow:      postgres_mock.NewUnitOfWork(t),
		tx:       postgres_mock.NewTransaction(t),
		users:    user_repository_mock.NewRepository(t),
		sessions: session_repository_mock.NewRepository(t),
		hasher:   password.NewBcryptHasher(bcrypt.MinCost),
		tokens:   token.NewGenerator(),
	}
	svc := auth_service.NewAuthService(
		deps.uow,
		deps.users,
		deps.sessions,
		deps.hasher,
		deps.tokens,
		time.Hour,
		logger.New("test"),
		prometheus.NewPrometheusMetricsProvider(),
	)
	return svc, deps
}

func TestAuthService_Register(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name        string
		email       string
		password    string
		mocks       func(d testDeps)
		wantErrType error
	}{
		{
			name:     "Success normalises email and stores a bcrypt hash",
			email:    "  Alice@Example.COM ",
			password: "Secret123",
			mocks: func(d testDeps) {
				d.uow.On("Begin", mock.Anything).Return(d.tx, nil)
				d.tx.On("UserRepository").Return(d.users)
				d.users.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
				d.users.On("Create", mock.Anything, "alice@example.com", mock.MatchedBy(func(hash string) bool {
					return hash != "Secret123" && d.hasher.Compare(hash, "Secret123")
				})).Return(&model.User{ID: userID, Email: "alice@example.com"}, nil)
				d.tx.On("Commit", mock.Anything).Return(nil)
			},
		},
		{
			name:        "Invalid email",
			email:       "not-an-email",
			password:    "Secret123",
			mocks:       func(d testDeps) {},
			wantErrType: custom_errors.ErrInvalidEmail,
		},
		{
			name:        "Password over 72 bytes",
			email:       "alice@example.com",
			password:    "Aa1" + strings.Repeat("é", 69),
			mocks:       func(d testDeps) {},
			wantErrType: custom_errors.ErrPasswordRequirements,
		},
		{
			name:        "Empty email",
			email:       "   ",
			password:    "Secret123",
			mocks:       func(d testDeps) {},
			wantErrType: custom_errors.ErrInvalidEmail,
		},
		{
			name:        "Password too short",
			email:       "alice@example.com",
			password:    "Sec1",
			mocks:       func(d testDeps) {},
			wantErrType: custom_errors.ErrPasswordRequirements,
		},
		{
			name:        "Password without digit",
			email:       "alice@example.com",
			password:    "SecretSecret",
			mocks:       func(d testDeps) {},
			wantErrType: custom_errors.ErrPasswordRequirements,
		},
		{
			name:     "Existing user",
			email:    "alice@example.com",
			password: "Secret123",
			mocks: func(d testDeps) {
				d.uow.On("Begin", mock.Anything).Return(d.tx, nil)
				d.tx.On("UserRepository").Return(d.users)
				d.users.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(true, nil)
				d.tx.On("Rollback", mock.Anything).Return(nil)
			},
			wantErrType: custom_errors.ErrUserExists,
		},
		{
			name:     "Unique violation race",
			email:    "alice@example.com",
			password: "Secret123",
			mocks: func(d testDeps) {
				d.uow.On("Begin", mock.Anything).Return(d.tx, nil)
				d.tx.On("UserRepository").Return(d.users)
				d.users.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
				d.users.On("Create", mock.Anything, "alice@example.com", mock.AnythingOfType("string")).Return(nil, custom_errors.ErrUserExists)
				d.tx.On("Rollback", mock.Anything).Return(nil)
			},
			wantErrType: custom_errors.ErrUserExists,
		},
		{
			name:     "Transaction begin error",
			email:    "alice@example.com",
			password: "Secret123",
			mocks: func(d testDeps) {
				d.uow.On("Begin", mock.Anything).Return(nil, errors.New("db error"))
			},
			wantErrType: custom_errors.ErrDatabaseQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService(t)
			tt.mocks(deps)

			user, err := svc.Register(context.Background(), tt.email, tt.password)
			if tt.wantErrType != nil {
				assert.ErrorIs(t, err, tt.wantErrType)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, user.ID)
			assert.Equal(t, "alice@example.com", user.Email)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("Secret123")
	require.NoError(t, err)
	user := &model.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: hash}

	tests := []struct {
		name        string
		email       string
		password    string
		mocks       func(d testDeps)
		wantErrType error
	}{
		{
			name:     "Success stores only the token hash",
			email:    "ALICE@example.com",
			password: "Secret123",
			mocks: func(d testDeps) {
				d.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil)
				d.uow.On("Begin", mock.Anything).Return(d.tx, nil)
				d.tx.On("SessionRepository").Return(d.sessions)
				d.sessions.On("DeleteExpiredForUser", mock.Anything, user.ID, mock.AnythingOfType("time.Time")).Return(int64(2), nil)
				d.sessions.On("Create", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
					Return(func(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*model.Session, error) {
						return &model.Session{ID: uuid.New(), UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}, nil
					})
				d.tx.On("Commit", mock.Anything).Return(nil)
			},
		},
		{
			name:     "Unknown email",
			email:    "bob@example.com",
			password: "Secret123",
			mocks: func(d testDeps) {
				d.users.On("GetByEmail", mock.Anything, "bob@example.com").Return(nil, custom_errors.ErrUserNotFound)
			},
			wantErrType: custom_errors.ErrInvalidCredentials,
		},
		{
			name:     "Wrong password",
			email:    "alice@example.com",
			password: "Secret124",
			mocks: func(d testDeps) {
				d.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil)
			},
			wantErrType: custom_errors.ErrInvalidCredentials,
		},
		{
			name:     "Database error on lookup",
			email:    "alice@example.com",
			password: "Secret123",
			mocks: func(d testDeps) {
				d.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, custom_errors.ErrDatabaseQuery)
			},
			wantErrType: custom_errors.ErrDatabaseQuery,
		},
		{
			name:     "Session insert fails",
			email:    "alice@example.com",
			password: "Secret123",
			mocks: func(d testDeps) {
				d.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil)
				d.uow.On("Begin", mock.Anything).Return(d.tx, nil)
				d.tx.On("SessionRepository").Return(d.sessions)
				d.sessions.On("DeleteExpiredForUser", mock.Anything, user.ID, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
				d.sessions.On("Create", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil, custom_errors.ErrDatabaseQuery)
				d.tx.On("Rollback", mock.Anything).Return(nil)
			},
			wantErrType: custom_errors.ErrDatabaseQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService(t)
			tt.mocks(deps)

			before := time.Now()
			result, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErrType != nil {
				assert.ErrorIs(t, err, tt.wantErrType)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
			assert.NotEmpty(t, result.Token)
			assert.WithinDuration(t, before.Add(time.Hour), result.ExpiresAt, 5*time.Second)

			deps.sessions.AssertCalled(t, "Create", mock.Anything, user.ID, deps.tokens.Hash(result.Token), mock.AnythingOfType("time.Time"))
			deps.sessions.AssertNotCalled(t, "Create", mock.Anything, user.ID, result.Token, mock.Anything)
		})
	}
}

func TestAuthService_ValidateSession(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "alice@example.com"}
	expiresAt := time.Now().Add(time.Hour)

	tests := []struct {
		name        string
		token       string
		mocks       func(d testDeps)
		wantErrType error
	}{
		{
			name:  "Valid session",
			token: "tok",
			mocks: func(d testDeps) {
				d.sessions.On("GetValid", mock.Anything, d.tokens.Hash("tok"), mock.AnythingOfType("time.Time")).
					Return(&model.SessionWithUser{Session: &model.Session{UserID: user.ID, ExpiresAt: expiresAt}, User: user}, nil)
			},
		},
		{
			name:        "Empty token",
			token:       "",
			mocks:       func(d testDeps) {},
			wantErrType: custom_errors.ErrInvalidSession,
		},
		{
			name:  "Unknown or expired token",
			token: "gone",
			mocks: func(d testDeps) {
				d.sessions.On("GetValid", mock.Anything, d.tokens.Hash("gone"), mock.AnythingOfType("time.Time")).Return(nil, custom_errors.ErrSessionNotFound)
			},
			wantErrType: custom_errors.ErrInvalidSession,
		},
		{
			name:  "Database error",
			token: "tok",
			mocks: func(d testDeps) {
				d.sessions.On("GetValid", mock.Anything, d.tokens.Hash("tok"), mock.AnythingOfType("time.Time")).Return(nil, custom_errors.ErrDatabaseQuery)
			},
			wantErrType: custom_errors.ErrDatabaseQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService(t)
			tt.mocks(deps)

			result, err := svc.ValidateSession(context.Background(), tt.token)
			if tt.wantErrType != nil {
				assert.ErrorIs(t, err, tt.wantErrType)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
			assert.Equal(t, tt.token, result.Token)
			assert.Equal(t, expiresAt, result.ExpiresAt)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("Deletes by token hash", func(t *testing.T) {
		svc, deps := newTestService(t)
		deps.sessions.On("DeleteByTokenHash", mock.Anything, deps.tokens.Hash("tok")).Return(nil)

		assert.NoError(t, svc.Logout(context.Background(), "tok"))
	})

	t.Run("Empty token is a no-op", func(t *testing.T) {
		svc, _ := newTestService(t)
		assert.NoError(t, svc.Logout(context.Background(), ""))
	})
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	t.Run("Returns deleted count", func(t *testing.T) {
		svc, deps := newTestService(t)
		deps.sessions.On("DeleteExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(3), nil)

		count, err := svc.PurgeExpiredSessions(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("Propagates error", func(t *testing.T) {
		svc, deps := newTestService(t)
		deps.sessions.On("DeleteExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), custom_errors.ErrDatabaseQuery)

		_, err := svc.PurgeExpiredSessions(context.Background())
		assert.ErrorIs(t, err, custom_errors.ErrDatabaseQuery)
	})
}

func TestAuthService_SessionLifecycle(t *testing.T) {
	log := logger.New("test")
	users := user_memory.NewUserRepository(log)
	sessions := session_memory.NewSessionRepository(users, log)
	uow := repository_memory.NewUnitOfWork(users, sessions, post_memory.NewPostRepository(log))
	tokens := token.NewGenerator()

	svc := auth_service.NewAuthService(
		uow, users, sessions,
		password.NewBcryptHasher(bcrypt.MinCost),
		tokens,
		200*time.Millisecond,
		log,
		prometheus.NewPrometheusMetricsProvider(),
	)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "Secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ALICE@example.com", "Secret123")
	assert.ErrorIs(t, err, custom_errors.ErrUserExists)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, custom_errors.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "Secret123")
	assert.ErrorIs(t, err, custom_errors.ErrInvalidCredentials)

	first, err := svc.Login(ctx, "alice@example.com", "Secret123")
	require.NoError(t, err)

	got, err := svc.ValidateSession(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.User.Email)

	_, err = sessions.GetValid(ctx, first.Token, time.Now())
	assert.ErrorIs(t, err, custom_errors.ErrSessionNotFound, "raw token must not be stored")

	second, err := svc.Login(ctx, "alice@example.com", "Secret123")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, second.Token))
	_, err = svc.ValidateSession(ctx, second.Token)
	assert.ErrorIs(t, err, custom_errors.ErrInvalidSession)

	assert.Eventually(t, func() bool {
		_, err := svc.ValidateSession(ctx, first.Token)
		return errors.Is(err, custom_errors.ErrInvalidSession)
	}, 2*time.Second, 20*time.Millisecond)

	purged, err := svc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
