package about

import (
	"net/http"

	"github.com/KAsare1/Kodefx-blog/web"
	"github.com/gorilla/mux"
)

type Handler struct {
	render web.Renderer
}

func NewHandler(render web.Renderer) *Handler {
	return &Handler{render: render}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/about/author/", h.page("about/author.html")).Methods("GET")
	router.HandleFunc("/about/tech/", h.page("about/tech.html")).Methods("GET")
}

func (h *Handler) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render.Render(w, r, http.StatusOK, name, nil)
	}
}
