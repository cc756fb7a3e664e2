package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	"landing/internal/infrastructure/inbound/httpserver/middleware"
	"landing/internal/infrastructure/inbound/httpserver/sessioncookie"
	"landing/internal/infrastructure/logger"
	auth_service_mock "landing/mocks/auth"
)

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{name: "bearer header", header: "Bearer abc", want: "abc"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "header wins over cookie", header: "Bearer abc", cookie: "xyz", want: "abc"},
		{name: "cookie fallback", cookie: "xyz", want: "xyz"},
		{name: "non-bearer scheme falls back to cookie", header: "Basic dXNlcg==", cookie: "xyz", want: "xyz"},
		{name: "nothing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: tt.cookie})
			}
			assert.Equal(t, tt.want, middleware.TokenFromRequest(req))
		})
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{next: "", want: "/"},
		{next: "/protected", want: "/protected"},
		{next: "/blog/1?x=y", want: "/blog/1?x=y"},
		{next: "https://evil.example.com", want: "/"},
		{next: "//evil.example.com", want: "/"},
		{next: "/\\evil.example.com", want: "/"},
		{next: "relative", want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, middleware.SafeNext(tt.next))
		})
	}
}

func authenticatedUser() *model.AuthenticatedUser {
	return &model.AuthenticatedUser{
		User:      &model.User{ID: uuid.New(), Email: "alice@example.com"},
		Token:     "good",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestAuth_RequireAPI(t *testing.T) {
	user := authenticatedUser()

	tests := []struct {
		name       string
		token      string
		mocks      func(svc *auth_service_mock.Service)
		wantStatus int
	}{
		{
			name:  "valid session",
			token: "good",
			mocks: func(svc *auth_service_mock.Service) {
				svc.On("ValidateSession", mock.Anything, "good").Return(user, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing token",
			mocks:      func(svc *auth_service_mock.Service) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:  "invalid session",
			token: "bad",
			mocks: func(svc *auth_service_mock.Service) {
				svc.On("ValidateSession", mock.Anything, "bad").Return(nil, custom_errors.ErrInvalidSession)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:  "backend failure",
			token: "good",
			mocks: func(svc *auth_service_mock.Service) {
				svc.On("ValidateSession", mock.Anything, "good").Return(nil, custom_errors.ErrDatabaseQuery)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := auth_service_mock.NewService(t)
			tt.mocks(svc)

			var gotUser *model.AuthenticatedUser
			h := middleware.NewAuth(svc, logger.New("test")).RequireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = middleware.UserFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, user, gotUser)
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestAuth_RequirePage(t *testing.T) {
	t.Run("anonymous visitor is redirected with next", func(t *testing.T) {
		svc := auth_service_mock.NewService(t)
		h := middleware.NewAuth(svc, logger.New("test")).RequirePage(okHandler())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts/new?draft=1", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?next=%2Fposts%2Fnew%3Fdraft%3D1", rec.Header().Get("Location"))
	})

	t.Run("signed in visitor passes", func(t *testing.T) {
		svc := auth_service_mock.NewService(t)
		svc.On("ValidateSession", mock.Anything, "good").Return(authenticatedUser(), nil)
		h := middleware.NewAuth(svc, logger.New("test")).RequirePage(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "good"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuth_Optional(t *testing.T) {
	svc := auth_service_mock.NewService(t)
	svc.On("ValidateSession", mock.Anything, "bad").Return(nil, custom_errors.ErrInvalidSession)

	var attached bool
	h := middleware.NewAuth(svc, logger.New("test")).Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, attached = middleware.UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, attached)
}
