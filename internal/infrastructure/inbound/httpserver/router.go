package httpserver

import (
	"net/http"

	auth_service "landing/internal/domain/ports/input/auth"
	post_service "landing/internal/domain/ports/input/post"
	ports "landing/internal/domain/ports/output"
	"landing/internal/infrastructure/inbound/httpserver/api"
	"landing/internal/infrastructure/inbound/httpserver/middleware"
	"landing/internal/infrastructure/inbound/httpserver/pages"

	"github.com/go-playground/validator/v10"
)

type RouterDeps struct {
	AuthService    auth_service.Service
	PostService    post_service.Service
	Validate       *validator.Validate
	Log            ports.Logger
	Metrics        ports.MetricsProvider
	LoginLimiter   *middleware.LimiterRegistry
	AllowedOrigins []string
	SecureCookies  bool
	TrustProxy     bool
}

func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.NewAuth(d.AuthService, d.Log)
	limitLogin := middleware.RateLimit(d.LoginLimiter, d.TrustProxy, d.Log, d.Metrics)

	mux.Handle("POST /api/auth/register", api.NewRegisterHandler(d.AuthService, d.Validate, d.Log))
	mux.Handle("POST /api/auth/login", limitLogin(api.NewLoginHandler(d.AuthService, d.Validate, d.Log, d.SecureCookies)))
	mux.Handle("POST /api/auth/logout", api.NewLogoutHandler(d.AuthService, d.Log, d.SecureCookies))
	mux.Handle("GET /api/auth/me", auth.RequireAPI(api.NewMeHandler()))
	mux.Handle("POST /api/posts", auth.RequireAPI(api.NewCreatePostHandler(d.PostService, d.Validate, d.Log)))
	mux.Handle("GET /api/posts", api.NewListPostsHandler(d.PostService, d.Validate, d.Log))
	mux.Handle("GET /api/posts/{id}", api.NewGetPostHandler(d.PostService, d.Validate, d.Log))
	mux.HandleFunc("/api/", api.NotFound)

	p := pages.NewHandlers(d.AuthService, d.PostService, d.Log, d.SecureCookies)
	mux.Handle("GET /{$}", auth.Optional(http.HandlerFunc(p.Home)))
	mux.Handle("GET /blog", auth.Optional(http.HandlerFunc(p.Blog)))
	mux.Handle("GET /blog/{id}", auth.Optional(http.HandlerFunc(p.BlogPost)))
	mux.Handle("GET /login", auth.Optional(http.HandlerFunc(p.LoginForm)))
	mux.Handle("POST /login", limitLogin(http.HandlerFunc(p.LoginSubmit)))
	mux.HandleFunc("POST /logout", p.Logout)
	mux.Handle("GET /protected", auth.RequirePage(http.HandlerFunc(p.Protected)))
	mux.Handle("GET /posts/new", auth.RequirePage(http.HandlerFunc(p.NewPostForm)))
	mux.Handle("POST /posts/new", auth.RequirePage(http.HandlerFunc(p.NewPostSubmit)))
	mux.Handle("/", auth.Optional(http.HandlerFunc(p.NotFound)))

	return middleware.Chain(mux,
		middleware.RequestID(),
		middleware.Logger(d.Log),
		middleware.Recovery(d.Log),
		middleware.CORS(d.AllowedOrigins),
		middleware.Metrics(d.Metrics),
	)
}
