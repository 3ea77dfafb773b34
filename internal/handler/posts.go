package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/boardkit/board/internal/httperr"
	"github.com/boardkit/board/internal/middleware"
	"github.com/boardkit/board/internal/repository"
	"github.com/boardkit/board/internal/view"
	"github.com/boardkit/board/pkg/cookie"
	"github.com/boardkit/board/pkg/validation"
)

// Posts handles listing, composing, viewing and deleting posts.
type Posts struct {
	posts   repository.PostStore
	cookies *cookie.Manager
	views   *view.Views
	log     *slog.Logger
}

// NewPosts creates the posts handler with injected dependencies.
func NewPosts(posts repository.PostStore, cookies *cookie.Manager, views *view.Views, log *slog.Logger) *Posts {
	return &Posts{posts: posts, cookies: cookies, views: views, log: log}
}

// Routes declares the post routes.
func (h *Posts) Routes(r chi.Router) {
	r.Get("/", Adapt(h.log, h.home))
	r.Get("/posts", Adapt(h.log, h.listJSON))
	r.Get("/post/{id:[0-9]+}", Adapt(h.log, h.show))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/write", Adapt(h.log, h.writeForm))
		r.Post("/add", Adapt(h.log, h.add))
		r.Get("/my_posts", Adapt(h.log, h.myPosts))
		r.Post("/delete/{id:[0-9]+}", Adapt(h.log, h.delete))
	})
}

// postRules are checked in order; the first violated rule is the only
// one reported. The name rule stays in the list even though the name
// now comes from the account, so the reporting order is fixed in one
// place: fields present, then name, then title, then content.
func postRules() []validation.Rule {
	return []validation.Rule{
		{Check: validation.Required("user-name", "post-title", "content"), Message: "please fill out all fields"},
		{Check: validation.MaxLen("user-name", 12), Message: "name must be 12 characters or fewer"},
		{Check: validation.MaxLen("post-title", 25), Message: "title must be 25 characters or fewer"},
		{Check: validation.MaxLen("content", 500), Message: "content must be 500 characters or fewer"},
	}
}

func (h *Posts) home(w http.ResponseWriter, r *http.Request) error {
	posts, err := h.posts.ListPosts(r.Context())
	if err != nil {
		return httperr.Internal(err)
	}

	data := page("board", h.cookies, w, r)
	data["Posts"] = posts
	data["RedirectTo"] = "/"
	return h.views.Render(w, "home.html", data)
}

func (h *Posts) writeForm(w http.ResponseWriter, r *http.Request) error {
	data := page("write", h.cookies, w, r)
	data["Values"] = map[string]string{}
	return h.views.Render(w, "write.html", data)
}

func (h *Posts) add(w http.ResponseWriter, r *http.Request) error {
	identity, _ := middleware.IdentityFrom(r.Context())

	form := validation.Form{
		"user-name":  identity.Name,
		"post-title": r.FormValue("post-title"),
		"content":    r.FormValue("content"),
	}

	if verr := validation.Apply(form, postRules()); verr != nil {
		// Redisplay, not a hard failure: the entered title and content
		// are preserved and the status code stays 200.
		data := page("write", h.cookies, w, r)
		data["Error"] = verr.Message
		data["Values"] = map[string]string{
			"post-title": form["post-title"],
			"content":    form["content"],
		}
		return h.views.Render(w, "write.html", data)
	}

	post, err := h.posts.CreatePost(r.Context(), repository.CreatePostParams{
		UserID:  identity.UserID,
		Name:    identity.Name,
		Title:   form["post-title"],
		Content: form["content"],
	})
	if err != nil {
		return httperr.Internal(err)
	}

	h.log.InfoContext(r.Context(), "post published",
		slog.Int64("post_id", post.ID),
		slog.Int64("user_id", identity.UserID),
	)

	setNotice(h.cookies, w, "success", fmt.Sprintf("%s's post has been published", identity.Name))
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}

func (h *Posts) show(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return httperr.NotFound("post not found")
	}

	post, err := h.posts.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.NotFound("post not found")
		}
		return httperr.Internal(err)
	}

	data := page(post.Title, h.cookies, w, r)
	data["Post"] = post
	return h.views.Render(w, "post.html", data)
}

// postJSON is the wire shape of a post in the structured listing.
type postJSON struct {
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	PostTitle string    `json:"post_title"`
	Content   string    `json:"content"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
}

func (h *Posts) listJSON(w http.ResponseWriter, r *http.Request) error {
	posts, err := h.posts.ListPosts(r.Context())
	if err != nil {
		return httperr.Internal(err)
	}

	out := make([]postJSON, 0, len(posts))
	for _, p := range posts {
		out = append(out, postJSON{
			PostID:    p.ID,
			UserID:    p.UserID,
			Name:      p.Name,
			PostTitle: p.Title,
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(map[string]any{"posts": out})
}

func (h *Posts) myPosts(w http.ResponseWriter, r *http.Request) error {
	identity, _ := middleware.IdentityFrom(r.Context())

	posts, err := h.posts.ListPostsByUser(r.Context(), identity.UserID)
	if err != nil {
		return httperr.Internal(err)
	}

	data := page("my posts", h.cookies, w, r)
	data["Posts"] = posts
	data["RedirectTo"] = "/my_posts"
	return h.views.Render(w, "home.html", data)
}

func (h *Posts) delete(w http.ResponseWriter, r *http.Request) error {
	identity, _ := middleware.IdentityFrom(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return httperr.NotFound("post does not exist")
	}

	post, err := h.posts.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.NotFound("post does not exist")
		}
		return httperr.Internal(err)
	}

	if post.UserID != identity.UserID {
		return httperr.Forbidden("not authorized")
	}

	if err := h.posts.DeletePost(r.Context(), post.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.NotFound("post does not exist")
		}
		return httperr.Internal(err)
	}

	h.log.InfoContext(r.Context(), "post deleted",
		slog.Int64("post_id", post.ID),
		slog.Int64("user_id", identity.UserID),
	)

	setNotice(h.cookies, w, "success", "post deleted")
	http.Redirect(w, r, localPath(r.FormValue("redirect-to"), "/"), http.StatusSeeOther)
	return nil
}
