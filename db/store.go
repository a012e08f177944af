package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/KAsare1/Kodefx-blog/cmd/utils"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrSelfFollow = errors.New("users cannot follow themselves")
)

// PostFilter narrows a post listing. Zero fields are ignored.
type PostFilter struct {
	AuthorID   uint
	GroupID    uint
	FollowerID uint // posts by authors this user follows
}

type FollowSummary struct {
	Followers   int64
	Following   int64
	IsFollowing bool
}

// Store is the data access used by the HTTP handlers and the CLI.
type Store interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uint) error

	CreateGroup(ctx context.Context, group *models.Group) error
	GroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	GroupByID(ctx context.Context, id uint) (*models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	DeleteGroup(ctx context.Context, id uint) error

	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, post *models.Post) error
	PostByAuthor(ctx context.Context, username string, id uint) (*models.Post, error)
	PostCount(ctx context.Context, authorID uint) (int64, error)
	PagePosts(ctx context.Context, filter PostFilter, perPage int, rawPage string) (*utils.Page[models.Post], error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentsForPost(ctx context.Context, postID uint) ([]models.Comment, error)

	Follow(ctx context.Context, userID, authorID uint) error
	Unfollow(ctx context.Context, userID, authorID uint) error
	IsFollowing(ctx context.Context, userID, authorID uint) (bool, error)
	FollowSummary(ctx context.Context, authorID, viewerID uint) (FollowSummary, error)

	CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error
	ResetToken(ctx context.Context, value string) (*models.PasswordResetToken, error)
	ResetPassword(ctx context.Context, userID uint, passwordHash string) error
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func wrap(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
