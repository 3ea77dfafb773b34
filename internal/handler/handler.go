// Package handler contains the HTTP route handlers.
// Handlers receive their dependencies via constructor injection and
// declare their own routes, so the server only assembles them.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/boardkit/board/internal/httperr"
	"github.com/boardkit/board/internal/middleware"
	"github.com/boardkit/board/pkg/cookie"
)

// Handler declares routes on a chi router.
type Handler interface {
	Routes(r chi.Router)
}

// Func is the signature for route handlers.
// Returning a non-nil error triggers the shared error responder.
type Func func(w http.ResponseWriter, r *http.Request) error

// Adapt converts a Func into an http.HandlerFunc.
// Known HTTP errors become plain-text responses with their status code;
// anything else is logged and answered with a 500.
func Adapt(log *slog.Logger, fn Func) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		if httpErr := httperr.As(err); httpErr != nil {
			if httpErr.Code >= http.StatusInternalServerError {
				log.ErrorContext(r.Context(), "handler failed",
					slog.Int("status", httpErr.Code),
					slog.Any("error", errors.Join(httpErr.Err, httpErr)),
				)
			}
			http.Error(w, httpErr.Message, httpErr.Code)
			return
		}

		log.ErrorContext(r.Context(), "handler failed", slog.Any("error", err))
		http.Error(w, "something went wrong", http.StatusInternalServerError)
	}
}

// Notice is a one-time message shown on the next rendered page.
type Notice struct {
	Kind    string `json:"kind"` // "success" or "error"
	Message string `json:"message"`
}

// noticeKey is the flash cookie key for notices.
const noticeKey = "notice"

func setNotice(cookies *cookie.Manager, w http.ResponseWriter, kind, message string) {
	_ = cookies.SetFlash(w, noticeKey, Notice{Kind: kind, Message: message})
}

// takeNotice reads and clears the pending notice, if any.
func takeNotice(cookies *cookie.Manager, w http.ResponseWriter, r *http.Request) *Notice {
	var n Notice
	if err := cookies.Flash(w, r, noticeKey, &n); err != nil {
		return nil
	}
	return &n
}

// page assembles the data every template expects: page title, the
// request's identity (if any) and the pending notice.
func page(title string, cookies *cookie.Manager, w http.ResponseWriter, r *http.Request) map[string]any {
	data := map[string]any{
		"Title":  title,
		"Notice": takeNotice(cookies, w, r),
	}
	if id, ok := middleware.IdentityFrom(r.Context()); ok {
		data["Identity"] = id
	}
	return data
}

// localPath returns target if it is a same-site path, fallback otherwise.
// Rejects scheme-relative ("//host") and absolute URLs so a forged form
// cannot turn a redirect into an open redirect.
func localPath(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	return target
}
