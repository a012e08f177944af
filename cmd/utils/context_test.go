package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[uint]*models.User

func (f fakeUsers) UserByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func TestSessionRoundTrip(t *testing.T) {
	s := NewSessions("secret", time.Hour, fakeUsers{})
	token, err := s.Issue(42)
	require.NoError(t, err)

	id, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	other := NewSessions("other", time.Hour, fakeUsers{})
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionExpired(t *testing.T) {
	s := NewSessions("secret", time.Minute, fakeUsers{})
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := s.Issue(1)
	require.NoError(t, err)

	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestMiddlewareAttachesUser(t *testing.T) {
	alice := &models.User{ID: 7, Username: "alice"}
	s := NewSessions("secret", time.Hour, fakeUsers{7: alice})

	var seen *models.User
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentUser(r)
	}))

	rec := httptest.NewRecorder()
	require.NoError(t, s.Login(rec, 7))
	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, SessionCookie, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, "alice", seen.Username)

	seen = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Nil(t, seen)
}

func TestMiddlewareUnknownUserIsAnonymous(t *testing.T) {
	s := NewSessions("secret", time.Hour, fakeUsers{})
	token, err := s.Issue(99)
	require.NoError(t, err)

	called := false
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, CurrentUser(r))
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}

func TestLoginRequiredRedirects(t *testing.T) {
	h := LoginRequired(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/new/?x=1", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login/?next=%2Fnew%2F%3Fx%3D1", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/new/", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{ID: 1}))
	h(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/follow/", SafeNext("/follow/"))
	assert.Equal(t, "/", SafeNext(""))
	assert.Equal(t, "/", SafeNext("https://evil.example"))
	assert.Equal(t, "/", SafeNext("//evil.example"))
	assert.Equal(t, "/", SafeNext("/\\evil.example"))
}
