package api

import (
	"net/http"

	"landing/internal/infrastructure/inbound/httpserver/middleware"
)

// MeHandler must sit behind Auth.RequireAPI.
type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user.User))
}
