package domain

import (
	"context"
	"time"
)

// Comment 不做软删级联，只随文章/用户的硬删一起清除
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ArticleID string    `gorm:"size:36;index;not null" json:"articleId"`
	UserID    string    `gorm:"size:36;index;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Comment) TableName() string { return "comments" }

type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	FindByID(ctx context.Context, id string) (*Comment, error)
	ListByArticle(ctx context.Context, articleID string, offset, limit int) ([]Comment, int64, error)
	HardDelete(ctx context.Context, id string) error
}
