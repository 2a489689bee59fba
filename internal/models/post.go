package models

import (
	"time"
)

// Post 一条 emoji 动态，创建后不可修改
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  string    `gorm:"size:64;not null;index:idx_posts_author_created,priority:1" json:"authorId"` // 身份服务中的用户 ID
	Content   string    `gorm:"size:255;not null" json:"content"`
	CreatedAt time.Time `gorm:"index;index:idx_posts_author_created,priority:2" json:"createdAt"`
}

// EnrichedPost pairs a post with its resolved author. It is built per request and never stored.
type EnrichedPost struct {
	Post   Post `json:"post"`
	Author User `json:"author"`
}
