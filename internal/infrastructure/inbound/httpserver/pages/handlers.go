//go:generate templ generate

package pages

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	ports "landing/internal/domain/ports/output"
	"landing/internal/infrastructure/inbound/httpserver/middleware"
	"landing/internal/infrastructure/inbound/httpserver/sessioncookie"

	"github.com/a-h/templ"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.AuthenticatedUser, error)
	Logout(ctx context.Context, token string) error
}

type PostService interface {
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error)
	GetPostByID(ctx context.Context, id int64) (*model.Post, error)
	ListPosts(ctx context.Context, filters *model.PostFilters) ([]*model.Post, int, error)
}

type Handlers struct {
	auth          AuthService
	posts         PostService
	log           ports.Logger
	secureCookies bool
}

func NewHandlers(auth AuthService, posts PostService, log ports.Logger, secureCookies bool) *Handlers {
	return &Handlers{
		auth:          auth,
		posts:         posts,
		log:           log,
		secureCookies: secureCookies,
	}
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

func currentUser(r *http.Request) *model.User {
	if u, ok := middleware.UserFromContext(r.Context()); ok {
		return u.User
	}
	return nil
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, HomePage(currentUser(r)))
}

func (h *Handlers) Blog(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit := model.DefaultPostsLimit
	offset := (page - 1) * limit

	posts, total, err := h.posts.ListPosts(r.Context(), &model.PostFilters{Limit: &limit, Offset: &offset})
	if err != nil {
		h.log.Error("Failed to list posts for blog", slog.String("error", err.Error()))
		render(w, r, http.StatusInternalServerError, ErrorPage(currentUser(r), http.StatusInternalServerError))
		return
	}

	pages := (total + limit - 1) / limit
	render(w, r, http.StatusOK, BlogListPage(currentUser(r), posts, page, pages))
}

func (h *Handlers) BlogPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.NotFound(w, r)
		return
	}

	post, err := h.posts.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			h.NotFound(w, r)
			return
		}
		h.log.Error("Failed to get post for blog", slog.Int64("post_id", id), slog.String("error", err.Error()))
		render(w, r, http.StatusInternalServerError, ErrorPage(currentUser(r), http.StatusInternalServerError))
		return
	}

	render(w, r, http.StatusOK, PostPage(currentUser(r), post))
}

func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	next := middleware.SafeNext(r.URL.Query().Get("next"))
	if currentUser(r) != nil {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, LoginPage(next, "", ""))
}

func (h *Handlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render(w, r, http.StatusBadRequest, LoginPage("/", "", "Invalid form submission."))
		return
	}
	next := middleware.SafeNext(r.PostForm.Get("next"))
	email := r.PostForm.Get("email")

	result, err := h.auth.Login(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, custom_errors.ErrInvalidCredentials) {
			render(w, r, http.StatusUnauthorized, LoginPage(next, email, "Invalid email or password."))
			return
		}
		h.log.Error("Failed to log in from form", slog.String("error", err.Error()))
		render(w, r, http.StatusInternalServerError, LoginPage(next, email, "Something went wrong, please try again."))
		return
	}

	sessioncookie.Write(w, result.Token, result.ExpiresAt, h.secureCookies)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := sessioncookie.Read(r); ok {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			h.log.Error("Failed to log out from form", slog.String("error", err.Error()))
		}
	}
	sessioncookie.Clear(w, h.secureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Protected must sit behind Auth.RequirePage.
func (h *Handlers) Protected(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login?next=%2Fprotected", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, ProtectedPage(u.User, u.ExpiresAt.UTC().Format(time.RFC1123)))
}

func (h *Handlers) NewPostForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, NewPostPage(currentUser(r), "", "", ""))
}

func (h *Handlers) NewPostSubmit(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login?next=%2Fposts%2Fnew", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		render(w, r, http.StatusBadRequest, NewPostPage(u.User, "", "", "Invalid form submission."))
		return
	}
	title, body := r.PostForm.Get("title"), r.PostForm.Get("body")

	post, err := h.posts.CreatePost(r.Context(), &model.CreatePostDTO{AuthorID: u.User.ID, Title: title, Body: body})
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostValidation) {
			render(w, r, http.StatusBadRequest, NewPostPage(u.User, title, body, "A post needs a title of at most 255 characters and a body."))
			return
		}
		h.log.Error("Failed to create post from form", slog.String("error", err.Error()))
		render(w, r, http.StatusInternalServerError, NewPostPage(u.User, title, body, "Something went wrong, please try again."))
		return
	}

	http.Redirect(w, r, "/blog/"+strconv.FormatInt(post.ID, 10), http.StatusSeeOther)
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound, NotFoundPage(currentUser(r)))
}
