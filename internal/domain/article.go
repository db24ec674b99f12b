package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Article struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Title       string         `gorm:"size:191;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	AuthorID    string         `gorm:"size:36;index;not null" json:"authorId"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	// 关联分类由 junction 表显式维护，不走 gorm 的 many2many
	Categories []Category `gorm:"-" json:"categories,omitempty"`
}

func (Article) TableName() string { return "articles" }

// ArticleCategory junction：一行即一条"文章携带该分类"的成员关系
type ArticleCategory struct {
	ArticleID  string `gorm:"primaryKey;size:36" json:"articleId"`
	CategoryID string `gorm:"primaryKey;size:36" json:"categoryId"`
}

func (ArticleCategory) TableName() string { return "article_categories" }

type ArticleRepository interface {
	// Create 原子过程：文章与初始分类关联一次落库
	Create(ctx context.Context, a *Article, categoryIDs []string) error
	FindByID(ctx context.Context, id string, privileged bool) (*Article, error)
	List(ctx context.Context, offset, limit int, privileged bool) ([]Article, int64, error)
	ListByAuthor(ctx context.Context, authorID string, offset, limit int, privileged bool) ([]Article, int64, error)
	Search(ctx context.Context, term string, offset, limit int) ([]Article, int64, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error

	SoftDelete(ctx context.Context, id string) error
	Recover(ctx context.Context, id string) error
	// HardDelete 原子过程：文章连同 junction 行与评论一次清除
	HardDelete(ctx context.Context, id string) error

	// 批量生命周期：返回实际发生转换的 id 子集
	SoftDeleteMany(ctx context.Context, ids []string) ([]string, error)
	// RecoverMany 只恢复 deleted_at >= since 的行（since 为零值则不设栅栏）
	RecoverMany(ctx context.Context, ids []string, since time.Time) ([]string, error)

	// 归属查询都走全量投影：级联与批量操作需要看到已删行
	IDsByAuthor(ctx context.Context, authorID string) ([]string, error)
	OwnedIDs(ctx context.Context, authorID string, ids []string) ([]string, error)
	FindByIDs(ctx context.Context, ids []string, privileged bool) ([]Article, error)

	// junction 操作
	CategoryIDs(ctx context.Context, articleID string) ([]string, error)
	AddCategories(ctx context.Context, articleID string, categoryIDs []string) error
	RemoveCategories(ctx context.Context, articleID string, categoryIDs []string) error
	CategoriesOf(ctx context.Context, articleID string) ([]Category, error)
}
