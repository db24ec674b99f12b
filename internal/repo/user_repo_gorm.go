package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go-cms-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if isDupKey(err) {
		existing, _ := r.FindByEmail(ctx, u.Email)
		return domain.Conflict("email already registered", existing)
	}
	return domain.Datastore("create user", err)
}

func (r *UserRepo) FindByID(ctx context.Context, id string, privileged bool) (*domain.User, error) {
	var u domain.User
	err := scoped(r.db.WithContext(ctx), privileged).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("user", id)
	}
	if err != nil {
		return nil, domain.Datastore("find user by id", err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("user", "")
	}
	if err != nil {
		return nil, domain.Datastore("find user by email", err)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int, privileged bool) ([]domain.User, int64, error) {
	q := scoped(r.db.WithContext(ctx), privileged).Model(&domain.User{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.Datastore("count users", err)
	}
	var users []domain.User
	if err := paginate(q, offset, limit).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, domain.Datastore("list users", err)
	}
	return users, total, nil
}

func (r *UserRepo) Search(ctx context.Context, term string, offset, limit int) ([]domain.User, int64, error) {
	like := "%" + term + "%"
	q := r.db.WithContext(ctx).Model(&domain.User{}).Where("email LIKE ? OR name LIKE ?", like, like)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.Datastore("count user search", err)
	}
	var users []domain.User
	if err := paginate(q, offset, limit).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, domain.Datastore("search users", err)
	}
	return users, total, nil
}

func (r *UserRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if isDupKey(res.Error) {
		return domain.Conflict("email already registered", nil)
	}
	if res.Error != nil {
		return domain.Datastore("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("user", id)
	}
	return nil
}

// SoftDelete 默认作用域自带 deleted_at IS NULL 守卫：只有活跃行会被打标
func (r *UserRepo) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return domain.Datastore("soft delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("user", id)
	}
	return nil
}

// Recover 只作用于已删行；已活跃/不存在都按 NotFound 上报
func (r *UserRepo) Recover(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&domain.User{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return domain.Datastore("recover user", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("user", id)
	}
	return nil
}

// HardDelete 不可逆；连同该用户的评论一起清除（引用级联）
func (r *UserRepo) HardDelete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Where("id = ?", id).Delete(&domain.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound("user", id)
	}
	return domain.Datastore("hard delete user", err)
}

func (r *UserRepo) DeletedAtOf(ctx context.Context, id string) (*time.Time, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Unscoped().Select("deleted_at").First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("user", id)
	}
	if err != nil {
		return nil, domain.Datastore("read user deleted_at", err)
	}
	if !u.DeletedAt.Valid {
		return nil, nil
	}
	t := u.DeletedAt.Time
	return &t, nil
}
