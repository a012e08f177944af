//go:build integration
// +build integration

package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KAsare1/Kodefx-blog/cmd/config"
	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/KAsare1/Kodefx-blog/db"
	"github.com/KAsare1/Kodefx-blog/db/dbtest"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a PostgreSQL container and returns a migrated store.
func setupPostgres(t *testing.T) *db.GormStore {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("kodefx"),
		postgres.WithUsername("kodefx"),
		postgres.WithPassword("kodefx"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	gdb, err := db.NewPSQLStorage(config.Config{DBURL: connStr})
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db.NewStore(gdb)
}

func TestPostgresScenario(t *testing.T) {
	ctx := context.Background()
	s := setupPostgres(t)
	author, g1, g2 := dbtest.Scenario(t, s)

	page, err := s.PagePosts(ctx, db.PostFilter{}, 10, "")
	if err != nil {
		t.Fatalf("PagePosts: %v", err)
	}
	if len(page.Items) != 10 || page.Items[0].Text != "Text-image" {
		t.Fatalf("unexpected first page: %d items, first %q", len(page.Items), page.Items[0].Text)
	}

	page, err = s.PagePosts(ctx, db.PostFilter{GroupID: g1.ID}, 10, "")
	if err != nil {
		t.Fatalf("PagePosts group: %v", err)
	}
	if len(page.Items) != 6 {
		t.Fatalf("expected 6 posts in %s, got %d", g1.Slug, len(page.Items))
	}

	if err := s.DeleteGroup(ctx, g1.ID); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	count, err := s.PostCount(ctx, author.ID)
	if err != nil || count != 18 {
		t.Fatalf("posts should survive group delete: count=%d err=%v", count, err)
	}

	if _, err := s.GroupBySlug(ctx, g2.Slug); err != nil {
		t.Fatalf("GroupBySlug: %v", err)
	}
}

func TestPostgresFollowConstraints(t *testing.T) {
	ctx := context.Background()
	s := setupPostgres(t)
	a := dbtest.User(t, s, "alice")
	b := dbtest.User(t, s, "bob")

	for i := 0; i < 2; i++ {
		if err := s.Follow(ctx, a.ID, b.ID); err != nil {
			t.Fatalf("Follow #%d: %v", i+1, err)
		}
	}
	summary, err := s.FollowSummary(ctx, b.ID, a.ID)
	if err != nil {
		t.Fatalf("FollowSummary: %v", err)
	}
	if summary.Followers != 1 || !summary.IsFollowing {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if err := s.Follow(ctx, a.ID, a.ID); !errors.Is(err, db.ErrSelfFollow) {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}
	self := &models.Follow{UserID: &a.ID, AuthorID: &a.ID}
	if err := s.DB().Create(self).Error; err == nil {
		t.Fatal("expected the check constraint to reject a self follow")
	}

	if err := s.DeleteUser(ctx, b.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	summary, err = s.FollowSummary(ctx, b.ID, a.ID)
	if err != nil {
		t.Fatalf("FollowSummary after delete: %v", err)
	}
	if summary.Followers != 0 {
		t.Fatalf("expected no followers after delete, got %d", summary.Followers)
	}
}

func TestPostgresDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := setupPostgres(t)
	dbtest.User(t, s, "alice")

	err := s.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "x"})
	if !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}
