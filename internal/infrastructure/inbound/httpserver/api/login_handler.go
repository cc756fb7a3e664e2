package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	ports "landing/internal/domain/ports/output"
	"landing/internal/infrastructure/inbound/httpserver/sessioncookie"

	"github.com/go-playground/validator/v10"
)

type UserAuthenticator interface {
	Login(ctx context.Context, email, password string) (*model.AuthenticatedUser, error)
}

type LoginHandler struct {
	authService   UserAuthenticator
	validate      *validator.Validate
	log           ports.Logger
	secureCookies bool
}

func NewLoginHandler(authService UserAuthenticator, validate *validator.Validate, log ports.Logger, secureCookies bool) *LoginHandler {
	return &LoginHandler{
		authService:   authService,
		validate:      validate,
		log:           log,
		secureCookies: secureCookies,
	}
}

type LoginRequestInternal struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestInternal
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.log.Debug("Login validation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, custom_errors.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.log.Error("Failed to log in", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	sessioncookie.Write(w, result.Token, result.ExpiresAt, h.secureCookies)
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      newUserResponse(result.User),
	})
}
