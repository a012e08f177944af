package db

import (
	"context"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/KAsare1/Kodefx-blog/cmd/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *GormStore) CreatePost(ctx context.Context, post *models.Post) error {
	return wrap(s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error, "create post")
}

// UpdatePost saves the editable fields. The author and pub_date never change.
func (s *GormStore) UpdatePost(ctx context.Context, post *models.Post) error {
	err := s.db.WithContext(ctx).Model(post).
		Select("text", "group_id", "image").
		Omit(clause.Associations).
		Updates(post).Error
	return wrap(err, "update post")
}

// PostByAuthor resolves a post only when both its id and its author's
// username match.
func (s *GormStore) PostByAuthor(ctx context.Context, username string, id uint) (*models.Post, error) {
	authorID := s.db.Model(&models.User{}).Select("id").Where("username = ?", username)

	var post models.Post
	err := s.db.WithContext(ctx).Preload("Author").Preload("Group").
		Where("id = ? AND author_id = (?)", id, authorID).
		First(&post).Error
	if err != nil {
		return nil, wrap(err, "post by author")
	}
	return &post, nil
}

func (s *GormStore) PostCount(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, wrap(err, "post count")
}

// PagePosts returns one page of posts matching filter, newest first.
func (s *GormStore) PagePosts(ctx context.Context, filter PostFilter, perPage int, rawPage string) (*utils.Page[models.Post], error) {
	var total int64
	if err := s.postsQuery(ctx, filter).Count(&total).Error; err != nil {
		return nil, wrap(err, "count posts")
	}

	paginator := utils.NewPaginator(total, perPage)
	number := paginator.Number(rawPage)

	var posts []models.Post
	if total > 0 {
		err := s.postsQuery(ctx, filter).
			Preload("Author").Preload("Group").
			Order(models.PostOrder).
			Offset(paginator.Offset(number)).
			Limit(paginator.PerPage).
			Find(&posts).Error
		if err != nil {
			return nil, wrap(err, "list posts")
		}
	}
	return utils.NewPage(paginator, number, posts), nil
}

func (s *GormStore) postsQuery(ctx context.Context, filter PostFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Post{})
	if filter.AuthorID != 0 {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if filter.GroupID != 0 {
		q = q.Where("group_id = ?", filter.GroupID)
	}
	if filter.FollowerID != 0 {
		followed := s.db.Model(&models.Follow{}).Select("author_id").
			Where("user_id = ? AND author_id IS NOT NULL", filter.FollowerID)
		q = q.Where("author_id IN (?)", followed)
	}
	return q
}

func (s *GormStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	return wrap(s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error, "create comment")
}

// CommentsForPost returns every comment on the post, oldest first.
func (s *GormStore) CommentsForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, wrap(err, "comments for post")
	}
	return comments, nil
}
