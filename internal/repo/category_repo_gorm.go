package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-cms-api/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

var _ domain.CategoryRepository = (*CategoryRepo)(nil)

// Create 重复 value/label 报 Conflict 并附带已存在的记录
func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if isDupKey(err) {
		existing, ferr := r.FindByValueOrLabel(ctx, c.Value, c.Label)
		if ferr != nil {
			existing = nil
		}
		return domain.Conflict("category value or label already exists", existing)
	}
	return domain.Datastore("create category", err)
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("category", id)
	}
	if err != nil {
		return nil, domain.Datastore("find category by id", err)
	}
	return &c, nil
}

func (r *CategoryRepo) FindByValueOrLabel(ctx context.Context, value, label string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, "value = ? OR label = ?", value, label).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("category", "")
	}
	if err != nil {
		return nil, domain.Datastore("find category by value/label", err)
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context, offset, limit int) ([]domain.Category, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Category{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.Datastore("count categories", err)
	}
	var cats []domain.Category
	if err := paginate(q, offset, limit).Order("value").Find(&cats).Error; err != nil {
		return nil, 0, domain.Datastore("list categories", err)
	}
	return cats, total, nil
}

func (r *CategoryRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", id).Updates(fields)
	if isDupKey(res.Error) {
		return domain.Conflict("category value or label already exists", nil)
	}
	if res.Error != nil {
		return domain.Datastore("update category", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("category", id)
	}
	return nil
}

// HardDelete 分类没有软删；连同引用它的 junction 行一起清
func (r *CategoryRepo) HardDelete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&domain.ArticleCategory{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound("category", id)
	}
	return domain.Datastore("hard delete category", err)
}
