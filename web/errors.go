package web

import (
	"log"
	"net/http"
	"runtime/debug"
)

type NotFoundPage struct {
	Path string
}

func NotFound(rnd Renderer, w http.ResponseWriter, r *http.Request) {
	rnd.Render(w, r, http.StatusNotFound, "misc/404.html", NotFoundPage{Path: r.URL.Path})
}

// ServerError logs err and renders the fixed 500 page.
func ServerError(rnd Renderer, w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("Error handling %s %s: %v", r.Method, r.URL.Path, err)
	rnd.Render(w, r, http.StatusInternalServerError, "misc/500.html", nil)
}

// NotFoundHandler is meant for mux.Router.NotFoundHandler.
func NotFoundHandler(rnd Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		NotFound(rnd, w, r)
	})
}

// MethodNotAllowedHandler is meant for mux.Router.MethodNotAllowedHandler.
func MethodNotAllowedHandler(rnd Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rnd.Render(w, r, http.StatusMethodNotAllowed, "misc/405.html", NotFoundPage{Path: r.URL.Path})
	})
}

// Recoverer turns a panic in next into the 500 page.
func Recoverer(rnd Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Printf("panic: %v\n%s", rec, debug.Stack())
					rnd.Render(w, r, http.StatusInternalServerError, "misc/500.html", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
