package follow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/KAsare1/Kodefx-blog/cmd/utils"
	"github.com/KAsare1/Kodefx-blog/db"
	"github.com/KAsare1/Kodefx-blog/db/dbtest"
	"github.com/KAsare1/Kodefx-blog/web"
	"github.com/KAsare1/Kodefx-blog/web/webtest"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*db.GormStore, *webtest.Recorder, *mux.Router) {
	t.Helper()
	store := dbtest.NewStore(t)
	rec := &webtest.Recorder{}
	router := mux.NewRouter()
	router.NotFoundHandler = web.NotFoundHandler(rec)
	NewHandler(store, rec).RegisterRoutes(router)
	return store, rec, router
}

func get(router *mux.Router, target string, user *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if user != nil {
		req = req.WithContext(utils.WithUser(req.Context(), user))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func feed(t *testing.T, rec *webtest.Recorder) FeedPage {
	t.Helper()
	call, ok := rec.Last()
	require.True(t, ok)
	require.Equal(t, "follow.html", call.Name)
	return call.Data.(FeedPage)
}

func TestFollowAndUnfollow(t *testing.T) {
	ctx := context.Background()
	store, _, router := setup(t)
	user := dbtest.User(t, store, "reader")
	author := dbtest.User(t, store, "writer")

	rr := get(router, "/writer/follow/", user)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/writer/", rr.Header().Get("Location"))

	following, err := store.IsFollowing(ctx, user.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, following)

	get(router, "/writer/follow/", user)
	summary, err := store.FollowSummary(ctx, author.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Followers)

	rr = get(router, "/writer/unfollow/", user)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/writer/", rr.Header().Get("Location"))
	following, err = store.IsFollowing(ctx, user.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, following)

	rr = get(router, "/writer/unfollow/", user)
	assert.Equal(t, http.StatusFound, rr.Code)
}

func TestFollowSelfIsIgnored(t *testing.T) {
	ctx := context.Background()
	store, _, router := setup(t)
	user := dbtest.User(t, store, "reader")

	rr := get(router, "/reader/follow/", user)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/reader/", rr.Header().Get("Location"))

	summary, err := store.FollowSummary(ctx, user.ID, user.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.Followers)
	assert.False(t, summary.IsFollowing)
}

func TestFollowUnknownAuthor(t *testing.T) {
	store, rec, router := setup(t)
	user := dbtest.User(t, store, "reader")

	rr := get(router, "/ghost/follow/", user)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	call, _ := rec.Last()
	assert.Equal(t, "misc/404.html", call.Name)

	rr = get(router, "/ghost/unfollow/", user)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFollowRequiresLogin(t *testing.T) {
	store, _, router := setup(t)
	dbtest.User(t, store, "writer")

	for target, next := range map[string]string{
		"/follow/":          "%2Ffollow%2F",
		"/writer/follow/":   "%2Fwriter%2Ffollow%2F",
		"/writer/unfollow/": "%2Fwriter%2Funfollow%2F",
	} {
		rr := get(router, target, nil)
		assert.Equal(t, http.StatusFound, rr.Code, target)
		assert.Equal(t, utils.LoginURL+"?next="+next, rr.Header().Get("Location"), target)
	}
}

func TestFollowIndex(t *testing.T) {
	store, rec, router := setup(t)
	reader := dbtest.User(t, store, "reader")
	followed := dbtest.User(t, store, "followed")
	stranger := dbtest.User(t, store, "stranger")
	dbtest.Post(t, store, followed, nil, "visible")
	dbtest.Post(t, store, stranger, nil, "hidden")

	rr := get(router, "/follow/", reader)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, feed(t, rec).Page.Items)

	get(router, "/followed/follow/", reader)
	get(router, "/follow/", reader)
	page := feed(t, rec).Page
	require.Len(t, page.Items, 1)
	assert.Equal(t, "visible", page.Items[0].Text)

	get(router, "/follow/", stranger)
	assert.Empty(t, feed(t, rec).Page.Items)
}

func TestFollowIndexPaginates(t *testing.T) {
	store, rec, router := setup(t)
	reader := dbtest.User(t, store, "reader")
	author := dbtest.User(t, store, "author")
	for i := 0; i < 13; i++ {
		dbtest.Post(t, store, author, nil, "post")
	}
	require.NoError(t, store.Follow(context.Background(), reader.ID, author.ID))

	get(router, "/follow/", reader)
	assert.Len(t, feed(t, rec).Page.Items, FeedPerPage)

	get(router, "/follow/?page=2", reader)
	page := feed(t, rec).Page
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 2, page.Number)
}
