package domain

import (
	"context"
	"time"
)

type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Value     string    `gorm:"uniqueIndex;size:100;not null" json:"value"` // slug
	Label     string    `gorm:"uniqueIndex;size:100;not null" json:"label"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return "categories" }

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id string) (*Category, error)
	// FindByValueOrLabel 重复检测用：任一唯一键命中即返回已存在的记录
	FindByValueOrLabel(ctx context.Context, value, label string) (*Category, error)
	List(ctx context.Context, offset, limit int) ([]Category, int64, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	HardDelete(ctx context.Context, id string) error
}
