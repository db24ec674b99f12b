package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-cms-api/internal/domain"
)

type CommentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) *CommentRepo { return &CommentRepo{db: db} }

var _ domain.CommentRepository = (*CommentRepo)(nil)

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	return domain.Datastore("create comment", r.db.WithContext(ctx).Create(c).Error)
}

func (r *CommentRepo) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("comment", id)
	}
	if err != nil {
		return nil, domain.Datastore("find comment by id", err)
	}
	return &c, nil
}

func (r *CommentRepo) ListByArticle(ctx context.Context, articleID string, offset, limit int) ([]domain.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Comment{}).Where("article_id = ?", articleID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.Datastore("count comments", err)
	}
	var items []domain.Comment
	if err := paginate(q, offset, limit).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, domain.Datastore("list comments", err)
	}
	return items, total, nil
}

func (r *CommentRepo) HardDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{})
	if res.Error != nil {
		return domain.Datastore("delete comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("comment", id)
	}
	return nil
}
