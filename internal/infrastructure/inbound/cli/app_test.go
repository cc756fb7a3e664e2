package admin_cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	auth_service "landing/internal/application/service/auth"
	admin_cli "landing/internal/infrastructure/inbound/cli"
	"landing/internal/infrastructure/logger"
	"landing/internal/infrastructure/outbound/metrics/prometheus"
	repository_memory "landing/internal/infrastructure/outbound/repository/memory"
	post_memory "landing/internal/infrastructure/outbound/repository/post/memory"
	session_memory "landing/internal/infrastructure/outbound/repository/session/memory"
	user_memory "landing/internal/infrastructure/outbound/repository/user/memory"
	"landing/internal/infrastructure/outbound/security/password"
	"landing/internal/infrastructure/outbound/security/token"
)

type fakeMigrator struct {
	calls  []string
	upErr  error
	closed bool
}

func (f *fakeMigrator) Up() error    { f.calls = append(f.calls, "up"); return f.upErr }
func (f *fakeMigrator) Down() error  { f.calls = append(f.calls, "down"); return nil }
func (f *fakeMigrator) Close() error { f.closed = true; return nil }

type harness struct {
	out      *bytes.Buffer
	errOut   *bytes.Buffer
	services *admin_cli.Services
	migrator *fakeMigrator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.New("test")
	users := user_memory.NewUserRepository(log)
	sessions := session_memory.NewSessionRepository(users, log)
	uow := repository_memory.NewUnitOfWork(users, sessions, post_memory.NewPostRepository(log))

	return &harness{
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
		services: &admin_cli.Services{
			Auth: auth_service.NewAuthService(
				uow, users, sessions,
				password.NewBcryptHasher(bcrypt.MinCost),
				token.NewGenerator(),
				50*time.Millisecond,
				log,
				prometheus.NewPrometheusMetricsProvider(),
			),
			Users: users,
		},
		migrator: &fakeMigrator{},
	}
}

func (h *harness) run(args ...string) int {
	app := admin_cli.NewApp(admin_cli.Deps{
		Services: func(*cli.Context) (*admin_cli.Services, func(), error) {
			return h.services, func() {}, nil
		},
		Migrator: func(*cli.Context) (admin_cli.Migrator, error) {
			return h.migrator, nil
		},
		Out: h.out,
	})
	app.ErrWriter = h.errOut
	return admin_cli.Run(context.Background(), app, append([]string{"landing-admin"}, args...))
}

func TestAddUser(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{
			name:     "created",
			args:     []string{"add-user", "--email", "Admin@Example.com", "--password", "Secret123"},
			wantCode: 0,
			wantOut:  "Created user admin@example.com",
		},
		{
			name:     "weak password",
			args:     []string{"add-user", "--email", "admin@example.com", "--password", "short"},
			wantCode: 1,
			wantErr:  "password must be 8 to 72 bytes long",
		},
		{
			name:     "password over 72 bytes",
			args:     []string{"add-user", "--email", "admin@example.com", "--password", "Aa1" + strings.Repeat("é", 69)},
			wantCode: 1,
			wantErr:  "password must be 8 to 72 bytes long",
		},
		{
			name:     "bad email",
			args:     []string{"add-user", "--email", "admin", "--password", "Secret123"},
			wantCode: 1,
			wantErr:  "invalid email address",
		},
		{
			name:     "missing flags",
			args:     []string{"add-user"},
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			code := h.run(tt.args...)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, h.out.String(), tt.wantOut)
			assert.Contains(t, h.errOut.String(), tt.wantErr)
		})
	}
}

func TestAddUser_Duplicate(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("add-user", "--email", "admin@example.com", "--password", "Secret123"))

	assert.Equal(t, 1, h.run("add-user", "--email", "ADMIN@example.com", "--password", "Secret123"))
	assert.Contains(t, h.errOut.String(), "already exists")
}

func TestListUsers(t *testing.T) {
	h := newHarness(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.Equal(t, 0, h.run("add-user", "--email", email, "--password", "Secret123"))
	}
	h.out.Reset()

	require.Equal(t, 0, h.run("list-users", "--limit", "2"))
	assert.Contains(t, h.out.String(), "EMAIL")
	assert.Contains(t, h.out.String(), "2 of 3 users")

	h.out.Reset()
	require.Equal(t, 0, h.run("list-users", "--limit", "2", "--offset", "2"))
	assert.Contains(t, h.out.String(), "1 of 3 users")

	assert.Equal(t, 1, h.run("list-users", "--limit", "500"))
}

func TestPurgeSessions(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("add-user", "--email", "admin@example.com", "--password", "Secret123"))
	_, err := h.services.Auth.Login(context.Background(), "admin@example.com", "Secret123")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	require.Equal(t, 0, h.run("purge-sessions"))
	assert.Contains(t, h.out.String(), "Purged 1 expired sessions")
}

func TestMigrate(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("migrate", "up"))
	require.Equal(t, 0, h.run("migrate", "down"))
	assert.Equal(t, []string{"up", "down"}, h.migrator.calls)
	assert.True(t, h.migrator.closed)

	h.migrator.upErr = errors.New("dirty database version 1")
	assert.Equal(t, 1, h.run("migrate", "up"))
	assert.Contains(t, h.errOut.String(), "dirty database version 1")
}
