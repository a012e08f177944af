package models

import (
	"time"
	"unicode/utf8"
)

type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"column:title;size:200;not null" json:"title"`
	Slug        string `gorm:"column:slug;size:50;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"column:description;type:text" json:"description"`
}

// Post is listed newest first everywhere; see PostOrder.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"column:text;type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"column:pub_date;autoCreateTime;index" json:"pub_date"`
	AuthorID uint      `gorm:"column:author_id;not null;index" json:"author_id"`
	Author   *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	GroupID  *uint     `gorm:"column:group_id;index" json:"group_id,omitempty"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image    string    `gorm:"column:image;size:255" json:"image,omitempty"`
}

const PostOrder = "pub_date DESC, id DESC"

// Short returns the first 15 characters of the text.
func (p *Post) Short() string {
	return truncate(p.Text, 15)
}

type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PostID   uint      `gorm:"column:post_id;not null;index" json:"post_id"`
	Post     *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uint      `gorm:"column:author_id;not null;index" json:"author_id"`
	Author   *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Text     string    `gorm:"column:text;type:text;not null" json:"text"`
	Created  time.Time `gorm:"column:created;autoCreateTime" json:"created"`
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
