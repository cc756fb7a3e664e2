package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	"landing/internal/infrastructure/inbound/httpserver/api"
	"landing/internal/infrastructure/inbound/httpserver/sessioncookie"
	"landing/internal/infrastructure/logger"
	auth_service_mock "landing/mocks/auth"
)

func TestLoginHandler_Success(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	result := &model.AuthenticatedUser{
		User:      &model.User{ID: uuid.New(), Email: "alice@example.com"},
		Token:     "raw-token",
		ExpiresAt: expires,
	}
	svc := auth_service_mock.NewService(t)
	svc.On("Login", mock.Anything, "alice@example.com", "Secret123").Return(result, nil)
	h := api.NewLoginHandler(svc, validator.New(), logger.New("test"), false)

	rec := httptest.NewRecorder()
	body := `{"email":"alice@example.com","password":"Secret123"}`
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "raw-token", resp.Token)
	assert.True(t, expires.Equal(resp.ExpiresAt))
	assert.Equal(t, "alice@example.com", resp.User.Email)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessioncookie.Name, cookies[0].Name)
	assert.Equal(t, "raw-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mocks      func(svc *auth_service_mock.Service)
		wantStatus int
	}{
		{
			name:       "empty body",
			body:       ``,
			mocks:      func(svc *auth_service_mock.Service) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing email",
			body:       `{"password":"Secret123"}`,
			mocks:      func(svc *auth_service_mock.Service) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid credentials",
			body: `{"email":"alice@example.com","password":"wrong"}`,
			mocks: func(svc *auth_service_mock.Service) {
				svc.On("Login", mock.Anything, "alice@example.com", "wrong").Return(nil, custom_errors.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "token generation failure",
			body: `{"email":"alice@example.com","password":"Secret123"}`,
			mocks: func(svc *auth_service_mock.Service) {
				svc.On("Login", mock.Anything, "alice@example.com", "Secret123").Return(nil, custom_errors.ErrTokenGeneration)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := auth_service_mock.NewService(t)
			tt.mocks(svc)
			h := api.NewLoginHandler(svc, validator.New(), logger.New("test"), false)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	svc := auth_service_mock.NewService(t)
	svc.On("Logout", mock.Anything, "raw-token").Return(nil)
	h := api.NewLogoutHandler(svc, logger.New("test"), false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "raw-token"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessioncookie.Name, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
