package db

import (
	"context"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"gorm.io/gorm"
)

func (s *GormStore) CreateGroup(ctx context.Context, group *models.Group) error {
	return wrap(s.db.WithContext(ctx).Create(group).Error, "create group")
}

func (s *GormStore) GroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, wrap(err, "group by slug")
	}
	return &group, nil
}

func (s *GormStore) GroupByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, wrap(err, "group by id")
	}
	return &group, nil
}

func (s *GormStore) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.WithContext(ctx).Order("title ASC").Find(&groups).Error; err != nil {
		return nil, wrap(err, "list groups")
	}
	return groups, nil
}

// DeleteGroup detaches the group's posts (group set to NULL) and deletes it.
func (s *GormStore) DeleteGroup(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Group{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return wrap(err, "delete group")
}
