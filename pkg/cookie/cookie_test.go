package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardkit/board/pkg/cookie"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func roundTrip(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(c)
		}
	}
	return r
}

func TestManager_PlainCookies(t *testing.T) {
	t.Parallel()

	m := cookie.New()

	w := httptest.NewRecorder()
	m.Set(w, "theme", "dark", 3600)

	got, err := m.Get(roundTrip(t, w), "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got)

	_, err = m.Get(roundTrip(t, w), "missing")
	assert.ErrorIs(t, err, cookie.ErrNotFound)
}

func TestManager_SignedCookies(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		m := cookie.New(cookie.WithSecret(testSecret))

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "sid", "token-123", 3600))

		got, err := m.GetSigned(roundTrip(t, w), "sid")
		require.NoError(t, err)
		assert.Equal(t, "token-123", got)
	})

	t.Run("tampered value rejected", func(t *testing.T) {
		t.Parallel()
		m := cookie.New(cookie.WithSecret(testSecret))

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "sid", "token-123", 3600))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		c := w.Result().Cookies()[0]
		c.Value = "x" + c.Value
		r.AddCookie(c)

		_, err := m.GetSigned(r, "sid")
		assert.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		t.Parallel()
		m := cookie.New(cookie.WithSecret(testSecret))

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "sid", "token-123", 3600))

		other := cookie.New(cookie.WithSecret("ffffffffffffffffffffffffffffffff"))
		_, err := other.GetSigned(roundTrip(t, w), "sid")
		assert.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("no secret configured", func(t *testing.T) {
		t.Parallel()
		m := cookie.New()
		err := m.SetSigned(httptest.NewRecorder(), "sid", "v", 0)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("short secret ignored", func(t *testing.T) {
		t.Parallel()
		m := cookie.New(cookie.WithSecret("too-short"))
		err := m.SetSigned(httptest.NewRecorder(), "sid", "v", 0)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})
}

func TestManager_Flash(t *testing.T) {
	t.Parallel()

	type notice struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}

	m := cookie.New(cookie.WithSecret(testSecret))

	w := httptest.NewRecorder()
	require.NoError(t, m.SetFlash(w, "notice", notice{Kind: "success", Message: "saved"}))

	r := roundTrip(t, w)
	w2 := httptest.NewRecorder()

	var got notice
	require.NoError(t, m.Flash(w2, r, "notice", &got))
	assert.Equal(t, notice{Kind: "success", Message: "saved"}, got)

	// Reading deletes the cookie.
	var deleted bool
	for _, c := range w2.Result().Cookies() {
		if c.Name == "flash_notice" && c.MaxAge < 0 {
			deleted = true
		}
	}
	assert.True(t, deleted, "flash cookie should be expired after read")

	// A request without the cookie finds nothing.
	err := m.Flash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "notice", &got)
	assert.ErrorIs(t, err, cookie.ErrNotFound)
}
