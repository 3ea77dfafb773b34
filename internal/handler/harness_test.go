package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/boardkit/board/internal/handler"
	"github.com/boardkit/board/internal/middleware"
	"github.com/boardkit/board/internal/view"
	"github.com/boardkit/board/pkg/cookie"
	"github.com/boardkit/board/pkg/logger"
	"github.com/boardkit/board/pkg/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// app is a fully wired router over in-memory stores, exercised through
// httptest the way a browser would drive it.
type app struct {
	router   chi.Router
	store    *fakeStore
	sessions *session.Manager
	cookies  *cookie.Manager
}

func newApp(t *testing.T) *app {
	t.Helper()

	cookies := cookie.New(cookie.WithSecret(testSecret))
	sessions := session.NewManager(session.NewMemory(), cookies, session.WithTTL(time.Hour))
	views, err := view.New()
	require.NoError(t, err)

	store := newFakeStore()
	log := logger.NewNope()

	r := chi.NewRouter()
	r.Use(middleware.WithIdentity(sessions))
	handler.NewAuth(store, sessions, cookies, views, log).Routes(r)
	handler.NewPosts(store, cookies, views, log).Routes(r)

	return &app{router: r, store: store, sessions: sessions, cookies: cookies}
}

// do runs a request through the router carrying the given cookies and
// returns the response.
func (a *app) do(t *testing.T, method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	r := httptest.NewRequest(method, target, body)
	if form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

// keep merges Set-Cookie headers from a response into a cookie jar,
// dropping deleted cookies.
func keep(jar []*http.Cookie, w *httptest.ResponseRecorder) []*http.Cookie {
	byName := make(map[string]*http.Cookie)
	for _, c := range jar {
		byName[c.Name] = c
	}
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(byName, c.Name)
			continue
		}
		byName[c.Name] = c
	}
	out := make([]*http.Cookie, 0, len(byName))
	for _, c := range byName {
		out = append(out, c)
	}
	return out
}

// register creates an account through the real registration route.
func (a *app) register(t *testing.T, name, email, pass string) {
	t.Helper()

	w := a.do(t, http.MethodPost, "/register", url.Values{
		"user-name": {name},
		"e-mail":    {email},
		"password":  {pass},
		"password2": {pass},
	}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code, "registration should redirect: %s", w.Body.String())
}

// login authenticates and returns the session cookie jar.
func (a *app) login(t *testing.T, email, pass string) []*http.Cookie {
	t.Helper()

	w := a.do(t, http.MethodPost, "/login", url.Values{
		"e-mail":   {email},
		"password": {pass},
	}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	return keep(nil, w)
}
