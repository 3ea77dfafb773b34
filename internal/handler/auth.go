package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boardkit/board/internal/httperr"
	"github.com/boardkit/board/internal/middleware"
	"github.com/boardkit/board/internal/repository"
	"github.com/boardkit/board/internal/view"
	"github.com/boardkit/board/pkg/cookie"
	"github.com/boardkit/board/pkg/password"
	"github.com/boardkit/board/pkg/session"
	"github.com/boardkit/board/pkg/validation"
)

// Auth handles registration, login and logout.
type Auth struct {
	users    repository.UserStore
	sessions *session.Manager
	cookies  *cookie.Manager
	views    *view.Views
	log      *slog.Logger
}

// NewAuth creates the auth handler with injected dependencies.
func NewAuth(users repository.UserStore, sessions *session.Manager, cookies *cookie.Manager, views *view.Views, log *slog.Logger) *Auth {
	return &Auth{users: users, sessions: sessions, cookies: cookies, views: views, log: log}
}

// Routes declares the auth routes.
func (h *Auth) Routes(r chi.Router) {
	r.Get("/register", Adapt(h.log, h.showRegister))
	r.Post("/register", Adapt(h.log, h.register))
	r.Get("/login", Adapt(h.log, h.showLogin))
	r.Post("/login", Adapt(h.log, h.login))
	r.With(middleware.RequireAuth).Post("/logout", Adapt(h.log, h.logout))
}

// registerRules are checked in order; the first violated rule is the
// only one reported.
func registerRules() []validation.Rule {
	return []validation.Rule{
		{Check: validation.Required("user-name", "e-mail", "password", "password2"), Message: "please fill out all fields"},
		{Check: validation.MaxLen("user-name", 12), Message: "name must be 12 characters or fewer"},
		{Check: validation.FieldsEqual("password", "password2"), Message: "passwords do not match"},
	}
}

func (h *Auth) showRegister(w http.ResponseWriter, r *http.Request) error {
	data := page("register", h.cookies, w, r)
	data["Values"] = map[string]string{}
	return h.views.Render(w, "register.html", data)
}

func (h *Auth) register(w http.ResponseWriter, r *http.Request) error {
	form := validation.Form{
		"user-name": r.FormValue("user-name"),
		"e-mail":    r.FormValue("e-mail"),
		"password":  r.FormValue("password"),
		"password2": r.FormValue("password2"),
	}

	if verr := validation.Apply(form, registerRules()); verr != nil {
		return h.redisplayRegister(w, r, form, verr.Message)
	}

	hash, err := password.Hash(form["password"])
	if err != nil {
		return httperr.Internal(err)
	}

	user, err := h.users.CreateUser(r.Context(), repository.CreateUserParams{
		Name:         form["user-name"],
		Email:        form["e-mail"],
		PasswordHash: hash,
	})
	if err != nil {
		// The unique constraint is the sole duplicate detector; a lost
		// race surfaces here exactly like a plain duplicate submit.
		if errors.Is(err, repository.ErrEmailTaken) {
			return h.redisplayRegister(w, r, form, "email already registered")
		}
		return httperr.Internal(err)
	}

	h.log.InfoContext(r.Context(), "user registered", slog.Int64("user_id", user.ID))

	setNotice(h.cookies, w, "success", fmt.Sprintf("welcome, %s! please log in", user.Name))
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}

// redisplayRegister re-renders the registration form with an inline
// notice, keeping the typed name and email but never the passwords.
func (h *Auth) redisplayRegister(w http.ResponseWriter, r *http.Request, form validation.Form, message string) error {
	data := page("register", h.cookies, w, r)
	data["Error"] = message
	data["Values"] = map[string]string{
		"user-name": form["user-name"],
		"e-mail":    form["e-mail"],
	}
	return h.views.Render(w, "register.html", data)
}

func (h *Auth) showLogin(w http.ResponseWriter, r *http.Request) error {
	data := page("login", h.cookies, w, r)
	data["Values"] = map[string]string{}
	return h.views.Render(w, "login.html", data)
}

func (h *Auth) login(w http.ResponseWriter, r *http.Request) error {
	email := r.FormValue("e-mail")
	plaintext := r.FormValue("password")

	// Unknown email and wrong password produce the identical message so
	// the response never leaks whether an account exists.
	user, err := h.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return h.rejectLogin(w, r)
		}
		return httperr.Internal(err)
	}
	if !password.Verify(user.PasswordHash, plaintext) {
		return h.rejectLogin(w, r)
	}

	if _, err := h.sessions.Authenticate(r.Context(), w, r, user.ID, user.Name); err != nil {
		return httperr.Internal(err)
	}

	h.log.InfoContext(r.Context(), "user logged in", slog.Int64("user_id", user.ID))

	setNotice(h.cookies, w, "success", fmt.Sprintf("logged in as %s", user.Name))
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}

func (h *Auth) rejectLogin(w http.ResponseWriter, r *http.Request) error {
	setNotice(h.cookies, w, "error", "email or password incorrect")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return nil
}

func (h *Auth) logout(w http.ResponseWriter, r *http.Request) error {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		return httperr.Internal(err)
	}

	setNotice(h.cookies, w, "success", "logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}
