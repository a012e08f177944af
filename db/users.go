package db

import (
	"context"
	"time"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *GormStore) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrap(err, "user by id")
	}
	return &user, nil
}

func (s *GormStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrap(err, "user by username")
	}
	return &user, nil
}

func (s *GormStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrap(err, "user by email")
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return wrap(s.db.WithContext(ctx).Create(user).Error, "create user")
}

// DeleteUser removes a user together with their posts and comments (and the
// comments on those posts). Follow edges touching the user are kept with the
// user's side set to NULL.
func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownPosts := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("post_id IN (?)", ownPosts).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Follow{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Follow{}).Where("author_id = ?", id).Update("author_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return wrap(err, "delete user")
}

func (s *GormStore) CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	return wrap(s.db.WithContext(ctx).Omit(clause.Associations).Create(token).Error, "create reset token")
}

// ResetToken returns an unexpired token with its user loaded.
func (s *GormStore) ResetToken(ctx context.Context, value string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := s.db.WithContext(ctx).Preload("User").Where("token = ?", value).First(&token).Error
	if err != nil {
		return nil, wrap(err, "reset token")
	}
	if token.Expired(time.Now()) || token.User == nil {
		return nil, wrap(gorm.ErrRecordNotFound, "reset token")
	}
	return &token, nil
}

// ResetPassword stores a new hash and invalidates every reset token of the user.
func (s *GormStore) ResetPassword(ctx context.Context, userID uint, passwordHash string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("user_id = ?", userID).Delete(&models.PasswordResetToken{}).Error
	})
	return wrap(err, "reset password")
}
