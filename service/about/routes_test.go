package about

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KAsare1/Kodefx-blog/web"
	"github.com/KAsare1/Kodefx-blog/web/webtest"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAboutPages(t *testing.T) {
	templates, err := web.NewTemplates()
	require.NoError(t, err)
	rec := &webtest.Recorder{Next: templates}
	router := mux.NewRouter()
	NewHandler(rec).RegisterRoutes(router)

	for path, name := range map[string]string{
		"/about/author/": "about/author.html",
		"/about/tech/":   "about/tech.html",
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
		call, ok := rec.Last()
		require.True(t, ok)
		assert.Equal(t, name, call.Name)
	}
}
