package models

import "time"

// Follow is a directed edge from a follower (User) to a followed author.
// Both ends are set to NULL when the referenced user is deleted.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"column:user_id;uniqueIndex:idx_follows_user_author;check:chk_follows_not_self,user_id <> author_id" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	AuthorID  *uint     `gorm:"column:author_id;uniqueIndex:idx_follows_user_author;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
