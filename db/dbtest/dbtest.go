// Package dbtest opens throwaway SQLite-backed stores for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/KAsare1/Kodefx-blog/db"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewStore returns a migrated store on a fresh database file with foreign
// keys enforced.
func NewStore(t testing.TB) *db.GormStore {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db.NewStore(gdb)
}

func User(t testing.TB, s db.Store, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "x"}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func Group(t testing.TB, s db.Store, title, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: title, Slug: slug, Description: title + " description"}
	if err := s.CreateGroup(context.Background(), g); err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	return g
}

func Post(t testing.TB, s db.Store, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	if err := s.CreatePost(context.Background(), p); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// Scenario creates 18 posts by one author: 12 without a group, 5 in
// "test-slug" and a final image post in "test-slug". A second group,
// "test-slug_2", stays empty.
func Scenario(t testing.TB, s db.Store) (*models.User, *models.Group, *models.Group) {
	t.Helper()
	author := User(t, s, "username")
	g1 := Group(t, s, "test_group", "test-slug")
	g2 := Group(t, s, "test_group_2", "test-slug_2")

	for i := 1; i <= 12; i++ {
		Post(t, s, author, nil, textN(i))
	}
	for i := 13; i <= 17; i++ {
		Post(t, s, author, g1, textN(i))
	}
	img := &models.Post{Text: "Text-image", AuthorID: author.ID, GroupID: &g1.ID, Image: "posts/small.gif"}
	if err := s.CreatePost(context.Background(), img); err != nil {
		t.Fatalf("create image post: %v", err)
	}
	return author, g1, g2
}

func textN(i int) string {
	return "Text-" + strconv.Itoa(i)
}
