package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydbwellness/ydb/docstore"
)

func setupLocal(t *testing.T) *Local {
	t.Helper()
	s, err := docstore.Open("sqlite", filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewLocal(s, "test-secret", time.Hour, nil)
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	l := setupLocal(t)

	u, err := l.SignUp(ctx, "  Writer@Example.com ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "writer@example.com", u.Email)
	assert.NotEmpty(t, u.UID)

	_, err = l.SignUp(ctx, "writer@example.com", "another1")
	assert.ErrorIs(t, err, ErrEmailTaken)

	token, signedIn, err := l.SignIn(ctx, "WRITER@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u, signedIn)

	verified, err := l.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u, verified)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	l := setupLocal(t)
	_, err := l.SignUp(ctx, "a@example.com", "correct-horse")
	require.NoError(t, err)

	_, _, err = l.SignIn(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = l.SignIn(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpValidation(t *testing.T) {
	l := setupLocal(t)
	_, err := l.SignUp(context.Background(), "not-an-email", "longenough")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = l.SignUp(context.Background(), "ok@example.com", "123")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestVerifyRejectsTamperedAndExpired(t *testing.T) {
	l := setupLocal(t)
	token, err := l.Issue(User{UID: "u1", Email: "e@example.com"})
	require.NoError(t, err)

	other := NewLocal(nil, "different-secret", time.Hour, nil)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	l.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = l.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = l.Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPolicy(t *testing.T) {
	legacy := Policy{AdminEmail: "owner@ydb.example"}
	strict := Policy{AdminEmail: "owner@ydb.example", Strict: true}

	tests := []struct {
		name           string
		user           *User
		legacy, strict bool
	}{
		{"signed out", nil, false, false},
		{"exact email", &User{Email: "Owner@ydb.example"}, true, true},
		{"contains admin", &User{Email: "site-admin@example.com"}, true, true},
		{"any user", &User{Email: "reader@example.com"}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.legacy, legacy.IsAdmin(tt.user))
			assert.Equal(t, tt.strict, strict.IsAdmin(tt.user))
		})
	}
}

func TestGuards(t *testing.T) {
	l := setupLocal(t)
	token, err := l.Issue(User{UID: "u1", Email: "reader@example.com"})
	require.NoError(t, err)

	e := echo.New()
	source := func(c echo.Context) string { return c.Request().Header.Get("X-Token") }
	e.Use(Middleware(l, source))
	ok := func(c echo.Context) error { return c.String(http.StatusOK, CurrentUser(c).Email) }
	denied := func(c echo.Context) error { return c.String(http.StatusForbidden, "Access Denied") }

	e.GET("/create-blog", ok, RequireUser("/login"))
	e.GET("/admin", ok, RequireAdmin(Policy{Strict: true}, "/login", denied))

	do := func(path, tok string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if tok != "" {
			req.Header.Set("X-Token", tok)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do("/create-blog", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = do("/create-blog", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "reader@example.com", rec.Body.String())

	rec = do("/admin", "")
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = do("/admin", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do("/create-blog", "not-a-token")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
