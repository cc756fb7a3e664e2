package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	ports "landing/internal/domain/ports/output"

	"github.com/go-playground/validator/v10"
)

type UserRegistrar interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
}

type RegisterHandler struct {
	authService UserRegistrar
	validate    *validator.Validate
	log         ports.Logger
}

func NewRegisterHandler(authService UserRegistrar, validate *validator.Validate, log ports.Logger) *RegisterHandler {
	return &RegisterHandler{
		authService: authService,
		validate:    validate,
		log:         log,
	}
}

// max counts runes; the 72-byte bcrypt limit is enforced by the service.
type RegisterRequestInternal struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestInternal
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.log.Debug("Register validation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, "invalid email")
		case errors.Is(err, custom_errors.ErrPasswordRequirements):
			writeError(w, http.StatusBadRequest, "password must be 8 to 72 bytes long and contain an uppercase letter, a lowercase letter and a digit")
		case errors.Is(err, custom_errors.ErrUserExists):
			writeError(w, http.StatusConflict, "user already exists")
		default:
			h.log.Error("Failed to register user", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "failed to register user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(user))
}
