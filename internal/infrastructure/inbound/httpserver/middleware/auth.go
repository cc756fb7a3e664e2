package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	auth_service "landing/internal/domain/ports/input/auth"
	ports "landing/internal/domain/ports/output"
	"landing/internal/infrastructure/inbound/httpserver/sessioncookie"
)

const userKey contextKey = "authenticated_user"

func WithUser(ctx context.Context, user *model.AuthenticatedUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*model.AuthenticatedUser, bool) {
	user, ok := ctx.Value(userKey).(*model.AuthenticatedUser)
	return user, ok && user != nil
}

// TokenFromRequest prefers an Authorization bearer token over the session
// cookie.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}
	if token, ok := sessioncookie.Read(r); ok {
		return token
	}
	return ""
}

type Auth struct {
	service auth_service.Service
	log     ports.Logger
}

func NewAuth(service auth_service.Service, log ports.Logger) *Auth {
	return &Auth{service: service, log: log}
}

// resolve reports ok=false only for infrastructure failures; a missing or
// invalid token yields (nil, true).
func (a *Auth) resolve(r *http.Request) (*model.AuthenticatedUser, bool) {
	token := TokenFromRequest(r)
	if token == "" {
		return nil, true
	}
	user, err := a.service.ValidateSession(r.Context(), token)
	if err != nil {
		if errors.Is(err, custom_errors.ErrInvalidSession) {
			return nil, true
		}
		a.log.Error("Failed to validate session", slog.String("error", err.Error()))
		return nil, false
	}
	return user, true
}

// Optional attaches the user when the request carries a valid session.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, _ := a.resolve(r); user != nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPI rejects requests without a valid session with a JSON 401.
func (a *Auth) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.resolve(r)
		if !ok {
			writeJSONError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if user == nil {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequirePage redirects anonymous visitors to the login page, carrying
// the requested path in "next".
func (a *Auth) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.resolve(r)
		if !ok {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if user == nil {
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// SafeNext returns next when it is a local absolute path and "/" otherwise.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return next
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
