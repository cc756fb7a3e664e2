package api

import (
	"context"
	"log/slog"
	"net/http"

	ports "landing/internal/domain/ports/output"
	"landing/internal/infrastructure/inbound/httpserver/middleware"
	"landing/internal/infrastructure/inbound/httpserver/sessioncookie"
)

type SessionTerminator interface {
	Logout(ctx context.Context, token string) error
}

type LogoutHandler struct {
	authService   SessionTerminator
	log           ports.Logger
	secureCookies bool
}

func NewLogoutHandler(authService SessionTerminator, log ports.Logger, secureCookies bool) *LogoutHandler {
	return &LogoutHandler{authService: authService, log: log, secureCookies: secureCookies}
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.TokenFromRequest(r)); err != nil {
		h.log.Error("Failed to log out", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	sessioncookie.Clear(w, h.secureCookies)
	w.WriteHeader(http.StatusNoContent)
}
