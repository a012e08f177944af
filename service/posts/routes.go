package posts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/KAsare1/Kodefx-blog/cmd/utils"
	"github.com/KAsare1/Kodefx-blog/db"
	"github.com/KAsare1/Kodefx-blog/web"
	"github.com/gorilla/mux"
)

const (
	IndexPerPage   = 10
	GroupPerPage   = 10
	ProfilePerPage = 5
)

type PostHandler struct {
	store  db.Store
	render web.Renderer
	images *utils.ImageStorage
	cache  IndexCache
}

func NewPostHandler(store db.Store, render web.Renderer, images *utils.ImageStorage) *PostHandler {
	return &PostHandler{store: store, render: render, images: images}
}

// WithCache enables the index page cache.
func (h *PostHandler) WithCache(cache IndexCache) *PostHandler {
	h.cache = cache
	return h
}

// RegisterRoutes must run after every handler that owns a fixed first path
// segment, since /{username}/ matches any of them.
func (h *PostHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Index).Methods("GET")
	router.HandleFunc("/new/", utils.LoginRequired(h.NewPost)).Methods("GET", "POST")
	router.HandleFunc("/group/{slug}/", h.GroupPosts).Methods("GET")

	router.HandleFunc("/{username}/", h.Profile).Methods("GET")
	router.HandleFunc("/{username}/{post_id:[0-9]+}/", h.PostView).Methods("GET")
	router.HandleFunc("/{username}/{post_id:[0-9]+}/edit/", utils.LoginRequired(h.PostEdit)).Methods("GET", "POST")
	router.HandleFunc("/{username}/{post_id:[0-9]+}/comment/", utils.LoginRequired(h.AddComment)).Methods("GET", "POST")
}

type IndexPage struct {
	Page *utils.Page[models.Post]
}

type GroupPage struct {
	Group *models.Group
	Page  *utils.Page[models.Post]
}

// AuthorCard is the author sidebar shared by the profile and post pages.
type AuthorCard struct {
	Author    *models.User
	Viewer    *models.User
	Follow    db.FollowSummary
	PostCount int64
}

type ProfilePage struct {
	Author *models.User
	Card   AuthorCard
	Page   *utils.Page[models.Post]
}

type PostPage struct {
	Author   *models.User
	Post     *models.Post
	Card     AuthorCard
	Comments []models.Comment
	Form     CommentForm
}

type PostFormPage struct {
	Form   *PostForm
	Errors utils.FormErrors
	Groups []models.Group
	Post   *models.Post
	IsEdit bool
}

func ProfileURL(username string) string {
	return "/" + url.PathEscape(username) + "/"
}

func PostURL(username string, id uint) string {
	return fmt.Sprintf("/%s/%d/", url.PathEscape(username), id)
}

func (h *PostHandler) Index(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("page")

	if h.cache != nil {
		if page, ok := h.cache.Get(r.Context(), raw); ok {
			h.render.Render(w, r, http.StatusOK, "index.html", IndexPage{Page: page})
			return
		}
	}

	page, err := h.store.PagePosts(r.Context(), db.PostFilter{}, IndexPerPage, raw)
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	if h.cache != nil {
		h.cache.Set(r.Context(), raw, page)
	}
	h.render.Render(w, r, http.StatusOK, "index.html", IndexPage{Page: page})
}

func (h *PostHandler) GroupPosts(w http.ResponseWriter, r *http.Request) {
	group, err := h.store.GroupBySlug(r.Context(), mux.Vars(r)["slug"])
	if errors.Is(err, db.ErrNotFound) {
		web.NotFound(h.render, w, r)
		return
	}
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}

	page, err := h.store.PagePosts(r.Context(), db.PostFilter{GroupID: group.ID}, GroupPerPage, r.URL.Query().Get("page"))
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	h.render.Render(w, r, http.StatusOK, "group.html", GroupPage{Group: group, Page: page})
}

func (h *PostHandler) Profile(w http.ResponseWriter, r *http.Request) {
	author, err := h.store.UserByUsername(r.Context(), mux.Vars(r)["username"])
	if errors.Is(err, db.ErrNotFound) {
		web.NotFound(h.render, w, r)
		return
	}
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}

	page, err := h.store.PagePosts(r.Context(), db.PostFilter{AuthorID: author.ID}, ProfilePerPage, r.URL.Query().Get("page"))
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	card, err := h.authorCard(r, author)
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	card.PostCount = page.Total

	h.render.Render(w, r, http.StatusOK, "posts/profile.html", ProfilePage{Author: author, Card: card, Page: page})
}

func (h *PostHandler) PostView(w http.ResponseWriter, r *http.Request) {
	post, ok := h.lookupPost(w, r)
	if !ok {
		return
	}

	card, err := h.authorCard(r, post.Author)
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	if card.PostCount, err = h.store.PostCount(r.Context(), post.AuthorID); err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	comments, err := h.store.CommentsForPost(r.Context(), post.ID)
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}

	h.render.Render(w, r, http.StatusOK, "posts/post_view.html", PostPage{
		Author:   post.Author,
		Post:     post,
		Card:     card,
		Comments: comments,
	})
}

func (h *PostHandler) NewPost(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)

	if r.Method != http.MethodPost {
		h.renderPostForm(w, r, &PostForm{}, nil, nil)
		return
	}

	form, errs, err := h.bindPostForm(w, r)
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	defer form.Close()
	if errs.Any() {
		h.renderPostForm(w, r, form, errs, nil)
		return
	}

	post := &models.Post{Text: form.Text, GroupID: form.GroupID, AuthorID: user.ID}
	if form.HasImage() {
		if post.Image, err = h.images.Save(form.image, form.header); err != nil {
			web.ServerError(h.render, w, r, err)
			return
		}
	}
	if err := h.store.CreatePost(r.Context(), post); err != nil {
		h.discardImage(post.Image)
		web.ServerError(h.render, w, r, err)
		return
	}

	log.Printf("Post %d created by %s", post.ID, user.Username)
	http.Redirect(w, r, "/", http.StatusFound)
}

// PostEdit lets the author change a post. Anyone else is sent back to the
// post page without any change.
func (h *PostHandler) PostEdit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.lookupPost(w, r)
	if !ok {
		return
	}
	postURL := PostURL(post.Author.Username, post.ID)

	if utils.CurrentUser(r).ID != post.AuthorID {
		http.Redirect(w, r, postURL, http.StatusFound)
		return
	}

	if r.Method != http.MethodPost {
		h.renderPostForm(w, r, &PostForm{Text: post.Text, GroupID: post.GroupID}, nil, post)
		return
	}

	form, errs, err := h.bindPostForm(w, r)
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	defer form.Close()
	if errs.Any() {
		h.renderPostForm(w, r, form, errs, post)
		return
	}

	oldImage := post.Image
	post.Text = form.Text
	post.GroupID = form.GroupID
	if form.HasImage() {
		if post.Image, err = h.images.Save(form.image, form.header); err != nil {
			web.ServerError(h.render, w, r, err)
			return
		}
	}
	if err := h.store.UpdatePost(r.Context(), post); err != nil {
		if post.Image != oldImage {
			h.discardImage(post.Image)
		}
		web.ServerError(h.render, w, r, err)
		return
	}
	if post.Image != oldImage {
		h.discardImage(oldImage)
	}

	http.Redirect(w, r, postURL, http.StatusFound)
}

// AddComment stores a comment by the requesting user. Empty or invalid
// submissions are dropped silently.
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	post, ok := h.lookupPost(w, r)
	if !ok {
		return
	}
	postURL := PostURL(post.Author.Username, post.ID)

	if r.Method != http.MethodPost {
		http.Redirect(w, r, postURL, http.StatusFound)
		return
	}

	form := bindCommentForm(r)
	if errs := utils.ValidateForm(form); errs.Any() {
		http.Redirect(w, r, postURL, http.StatusFound)
		return
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: utils.CurrentUser(r).ID,
		Text:     form.Text,
	}
	if err := h.store.CreateComment(r.Context(), comment); err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	http.Redirect(w, r, postURL, http.StatusFound)
}

// lookupPost resolves {username}/{post_id} and answers 404 itself when the
// pair does not name a post.
func (h *PostHandler) lookupPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["post_id"], 10, 64)
	if err != nil {
		web.NotFound(h.render, w, r)
		return nil, false
	}

	post, err := h.store.PostByAuthor(r.Context(), vars["username"], uint(id))
	if errors.Is(err, db.ErrNotFound) {
		web.NotFound(h.render, w, r)
		return nil, false
	}
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return nil, false
	}
	return post, true
}

func (h *PostHandler) authorCard(r *http.Request, author *models.User) (AuthorCard, error) {
	viewer := utils.CurrentUser(r)
	var viewerID uint
	if viewer != nil {
		viewerID = viewer.ID
	}

	summary, err := h.store.FollowSummary(r.Context(), author.ID, viewerID)
	if err != nil {
		return AuthorCard{}, err
	}
	return AuthorCard{Author: author, Viewer: viewer, Follow: summary}, nil
}

func (h *PostHandler) renderPostForm(w http.ResponseWriter, r *http.Request, form *PostForm, errs utils.FormErrors, post *models.Post) {
	groups, err := h.store.ListGroups(r.Context())
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	if errs == nil {
		errs = utils.FormErrors{}
	}
	h.render.Render(w, r, http.StatusOK, "posts/new_post.html", PostFormPage{
		Form:   form,
		Errors: errs,
		Groups: groups,
		Post:   post,
		IsEdit: post != nil,
	})
}

func (h *PostHandler) groupExists(ctx context.Context, id uint) (bool, error) {
	_, err := h.store.GroupByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (h *PostHandler) discardImage(name string) {
	if name == "" {
		return
	}
	if err := h.images.Delete(name); err != nil {
		log.Printf("Error deleting image %s: %v", name, err)
	}
}
