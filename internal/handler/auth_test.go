package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardkit/board/pkg/password"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("distinct emails get fresh user ids", func(t *testing.T) {
		t.Parallel()
		a := newApp(t)

		a.register(t, "kim", "kim@example.com", "pw-one-long")
		a.register(t, "lee", "lee@example.com", "pw-two-long")

		kim, err := a.store.GetUserByEmail(t.Context(), "kim@example.com")
		require.NoError(t, err)
		lee, err := a.store.GetUserByEmail(t.Context(), "lee@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, kim.ID, lee.ID)
	})

	t.Run("password mismatch redisplays form", func(t *testing.T) {
		t.Parallel()
		a := newApp(t)

		w := a.do(t, http.MethodPost, "/register", url.Values{
			"user-name": {"kim"},
			"e-mail":    {"kim@example.com"},
			"password":  {"one"},
			"password2": {"two"},
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "passwords do not match")
		// Typed values besides the passwords are preserved.
		assert.Contains(t, w.Body.String(), "kim@example.com")

		_, err := a.store.GetUserByEmail(t.Context(), "kim@example.com")
		assert.Error(t, err, "no user row should be created")
	})

	t.Run("name over 12 characters rejected", func(t *testing.T) {
		t.Parallel()
		a := newApp(t)

		w := a.do(t, http.MethodPost, "/register", url.Values{
			"user-name": {"thisnameistoolong"},
			"e-mail":    {"kim@example.com"},
			"password":  {"samesame"},
			"password2": {"samesame"},
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "name must be 12 characters or fewer")
	})

	t.Run("duplicate email fails on second attempt only", func(t *testing.T) {
		t.Parallel()
		a := newApp(t)

		a.register(t, "kim", "kim@example.com", "pw-one-long")

		// Different name and password; the email alone decides.
		w := a.do(t, http.MethodPost, "/register", url.Values{
			"user-name": {"other"},
			"e-mail":    {"kim@example.com"},
			"password":  {"different"},
			"password2": {"different"},
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "email already registered")

		u, err := a.store.GetUserByEmail(t.Context(), "kim@example.com")
		require.NoError(t, err)
		assert.Equal(t, "kim", u.Name, "first registration wins, no second row")
	})

	t.Run("password stored hashed", func(t *testing.T) {
		t.Parallel()
		a := newApp(t)

		a.register(t, "kim", "kim@example.com", "plain-secret")

		u, err := a.store.GetUserByEmail(t.Context(), "kim@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, "plain-secret", u.PasswordHash)
		assert.True(t, password.Verify(u.PasswordHash, "plain-secret"))
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("correct credentials establish a session", func(t *testing.T) {
		t.Parallel()
		a := newApp(t)
		a.register(t, "kim", "kim@example.com", "pw-one-long")

		jar := a.login(t, "kim@example.com", "pw-one-long")

		// The session cookie works: a gated page renders.
		w := a.do(t, http.MethodGet, "/my_posts", nil, jar)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		t.Parallel()
		a := newApp(t)
		a.register(t, "kim", "kim@example.com", "pw-one-long")

		wrongPass := a.do(t, http.MethodPost, "/login", url.Values{
			"e-mail":   {"kim@example.com"},
			"password": {"wrong"},
		}, nil)
		unknown := a.do(t, http.MethodPost, "/login", url.Values{
			"e-mail":   {"ghost@example.com"},
			"password": {"whatever"},
		}, nil)

		require.Equal(t, http.StatusSeeOther, wrongPass.Code)
		require.Equal(t, http.StatusSeeOther, unknown.Code)
		assert.Equal(t, "/login", wrongPass.Header().Get("Location"))
		assert.Equal(t, "/login", unknown.Header().Get("Location"))

		// Follow both redirects: the rendered notice is identical.
		followWrong := a.do(t, http.MethodGet, "/login", nil, keep(nil, wrongPass))
		followUnknown := a.do(t, http.MethodGet, "/login", nil, keep(nil, unknown))
		assert.Contains(t, followWrong.Body.String(), "email or password incorrect")
		assert.Contains(t, followUnknown.Body.String(), "email or password incorrect")
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	t.Run("destroys the session", func(t *testing.T) {
		t.Parallel()
		a := newApp(t)
		a.register(t, "kim", "kim@example.com", "pw-one-long")
		jar := a.login(t, "kim@example.com", "pw-one-long")

		w := a.do(t, http.MethodPost, "/logout", nil, jar)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		// The old cookie no longer opens gated pages.
		after := a.do(t, http.MethodGet, "/my_posts", nil, jar)
		assert.Equal(t, http.StatusSeeOther, after.Code)
		assert.Equal(t, "/login", after.Header().Get("Location"))
	})

	t.Run("rejected without a session", func(t *testing.T) {
		t.Parallel()
		a := newApp(t)

		w := a.do(t, http.MethodPost, "/logout", nil, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})
}
