package db

import (
	"context"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"gorm.io/gorm/clause"
)

// Follow records that userID follows authorID. Following someone twice is a
// no-op; following yourself returns ErrSelfFollow.
func (s *GormStore) Follow(ctx context.Context, userID, authorID uint) error {
	if userID == authorID {
		return ErrSelfFollow
	}
	follow := models.Follow{UserID: &userID, AuthorID: &authorID}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&follow).Error
	return wrap(err, "follow")
}

// Unfollow deletes the edge if present.
func (s *GormStore) Unfollow(ctx context.Context, userID, authorID uint) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
	return wrap(err, "unfollow")
}

func (s *GormStore) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, wrap(err, "is following")
}

// FollowSummary counts the author's followers and followings. viewerID 0 is
// an anonymous viewer, for whom IsFollowing is always false.
func (s *GormStore) FollowSummary(ctx context.Context, authorID, viewerID uint) (FollowSummary, error) {
	var summary FollowSummary
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("author_id = ? AND user_id IS NOT NULL", authorID).
		Count(&summary.Followers).Error
	if err != nil {
		return summary, wrap(err, "count followers")
	}
	err = s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id IS NOT NULL", authorID).
		Count(&summary.Following).Error
	if err != nil {
		return summary, wrap(err, "count following")
	}
	if viewerID != 0 {
		summary.IsFollowing, err = s.IsFollowing(ctx, viewerID, authorID)
		if err != nil {
			return summary, err
		}
	}
	return summary, nil
}
