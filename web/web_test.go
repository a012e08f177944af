package web_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/KAsare1/Kodefx-blog/cmd/utils"
	"github.com/KAsare1/Kodefx-blog/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := web.NewTemplates()
	require.NoError(t, err)

	for _, name := range []string{
		"index.html",
		"group.html",
		"follow.html",
		"posts/new_post.html",
		"posts/profile.html",
		"posts/post_view.html",
		"misc/404.html",
		"misc/405.html",
		"misc/500.html",
		"about/author.html",
		"about/tech.html",
		"registration/signup.html",
		"registration/login.html",
		"registration/logged_out.html",
		"registration/password_reset_form.html",
		"registration/password_reset_done.html",
		"registration/password_reset_confirm.html",
	} {
		assert.True(t, tmpl.Has(name), name)
	}
	assert.False(t, tmpl.Has("base.html"))
	assert.False(t, tmpl.Has("includes/paginator.html"))
}

func TestNotFoundPage(t *testing.T) {
	tmpl, err := web.NewTemplates()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/unexisting_page/", nil)
	rr := httptest.NewRecorder()
	web.NotFoundHandler(tmpl).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "/unexisting_page/")
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
}

func TestMethodNotAllowedPage(t *testing.T) {
	tmpl, err := web.NewTemplates()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/alice/", nil)
	rr := httptest.NewRecorder()
	web.MethodNotAllowedHandler(tmpl).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Contains(t, rr.Body.String(), "Method not allowed")
	assert.Contains(t, rr.Body.String(), "/alice/")
}

func TestLayoutShowsCurrentUser(t *testing.T) {
	tmpl, err := web.NewTemplates()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/about/author/", nil)
	req = req.WithContext(utils.WithUser(req.Context(), &models.User{ID: 1, Username: "leo"}))
	rr := httptest.NewRecorder()
	tmpl.Render(rr, req, http.StatusOK, "about/author.html", nil)

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, body, `href="/leo/"`)
	assert.Contains(t, body, "/auth/logout/")
	assert.NotContains(t, body, "/auth/signup/")
}

func TestRenderUnknownTemplate(t *testing.T) {
	tmpl, err := web.NewTemplates()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	tmpl.Render(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "nope.html", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRecovererRendersServerError(t *testing.T) {
	tmpl, err := web.NewTemplates()
	require.NoError(t, err)

	h := web.Recoverer(tmpl)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "Server error"))
}

func TestRecovererRepanicsOnAbort(t *testing.T) {
	tmpl, err := web.NewTemplates()
	require.NoError(t, err)

	h := web.Recoverer(tmpl)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
