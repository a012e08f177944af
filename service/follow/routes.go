package follow

import (
	"errors"
	"net/http"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/KAsare1/Kodefx-blog/cmd/utils"
	"github.com/KAsare1/Kodefx-blog/db"
	"github.com/KAsare1/Kodefx-blog/service/posts"
	"github.com/KAsare1/Kodefx-blog/web"
	"github.com/gorilla/mux"
)

const FeedPerPage = 10

type Handler struct {
	store  db.Store
	render web.Renderer
}

func NewHandler(store db.Store, render web.Renderer) *Handler {
	return &Handler{store: store, render: render}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/follow/", utils.LoginRequired(h.FollowIndex)).Methods("GET")
	router.HandleFunc("/{username}/follow/", utils.LoginRequired(h.ProfileFollow)).Methods("GET")
	router.HandleFunc("/{username}/unfollow/", utils.LoginRequired(h.ProfileUnfollow)).Methods("GET")
}

type FeedPage struct {
	Page *utils.Page[models.Post]
}

// FollowIndex lists posts by every author the requester follows.
func (h *Handler) FollowIndex(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)
	page, err := h.store.PagePosts(r.Context(), db.PostFilter{FollowerID: user.ID}, FeedPerPage, r.URL.Query().Get("page"))
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	h.render.Render(w, r, http.StatusOK, "follow.html", FeedPage{Page: page})
}

func (h *Handler) ProfileFollow(w http.ResponseWriter, r *http.Request) {
	author, ok := h.lookupAuthor(w, r)
	if !ok {
		return
	}

	err := h.store.Follow(r.Context(), utils.CurrentUser(r).ID, author.ID)
	if err != nil && !errors.Is(err, db.ErrSelfFollow) {
		web.ServerError(h.render, w, r, err)
		return
	}
	http.Redirect(w, r, posts.ProfileURL(author.Username), http.StatusFound)
}

func (h *Handler) ProfileUnfollow(w http.ResponseWriter, r *http.Request) {
	author, ok := h.lookupAuthor(w, r)
	if !ok {
		return
	}

	if err := h.store.Unfollow(r.Context(), utils.CurrentUser(r).ID, author.ID); err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	http.Redirect(w, r, posts.ProfileURL(author.Username), http.StatusFound)
}

func (h *Handler) lookupAuthor(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	author, err := h.store.UserByUsername(r.Context(), mux.Vars(r)["username"])
	if errors.Is(err, db.ErrNotFound) {
		web.NotFound(h.render, w, r)
		return nil, false
	}
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return nil, false
	}
	return author, true
}
