package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name         string         `gorm:"size:64;not null" json:"name"`
	PasswordHash string         `gorm:"size:191;not null" json:"-"`
	Role         Role           `gorm:"size:16;not null;default:user" json:"role"`
	Avatar       string         `gorm:"size:255" json:"avatar"`
	Bio          string         `gorm:"size:500" json:"bio"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

func (User) TableName() string { return "users" }

// UserRepository 读写用户表。privileged=true 走全量投影（含软删行），
// 否则只见 deleted_at IS NULL 的活跃投影。limit<=0 表示不分页。
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string, privileged bool) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int, privileged bool) ([]User, int64, error)
	Search(ctx context.Context, term string, offset, limit int) ([]User, int64, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error

	// 生命周期：软删只作用于活跃行，恢复只作用于已删行；
	// 状态不匹配按 NotFound 上报（幂等空操作）
	SoftDelete(ctx context.Context, id string) error
	Recover(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error

	// DeletedAtOf 读取已删用户的删除时刻（恢复级联的时间栅栏用）
	DeletedAtOf(ctx context.Context, id string) (*time.Time, error)
}
