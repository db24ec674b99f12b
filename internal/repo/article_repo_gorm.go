package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-cms-api/internal/domain"
)

type ArticleRepo struct{ db *gorm.DB }

func NewArticleRepo(db *gorm.DB) *ArticleRepo { return &ArticleRepo{db: db} }

var _ domain.ArticleRepository = (*ArticleRepo)(nil)

// Create 原子过程：文章 + 初始 junction 行一个事务落库
func (r *ArticleRepo) Create(ctx context.Context, a *domain.Article, categoryIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return insertJunction(tx, a.ID, categoryIDs)
	})
	return domain.Datastore("create article", err)
}

func (r *ArticleRepo) FindByID(ctx context.Context, id string, privileged bool) (*domain.Article, error) {
	var a domain.Article
	err := scoped(r.db.WithContext(ctx), privileged).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("article", id)
	}
	if err != nil {
		return nil, domain.Datastore("find article by id", err)
	}
	return &a, nil
}

func (r *ArticleRepo) List(ctx context.Context, offset, limit int, privileged bool) ([]domain.Article, int64, error) {
	q := scoped(r.db.WithContext(ctx), privileged).Model(&domain.Article{})
	return r.page(q, offset, limit, "list articles")
}

func (r *ArticleRepo) ListByAuthor(ctx context.Context, authorID string, offset, limit int, privileged bool) ([]domain.Article, int64, error) {
	q := scoped(r.db.WithContext(ctx), privileged).Model(&domain.Article{}).Where("author_id = ?", authorID)
	return r.page(q, offset, limit, "list articles by author")
}

func (r *ArticleRepo) Search(ctx context.Context, term string, offset, limit int) ([]domain.Article, int64, error) {
	like := "%" + term + "%"
	q := r.db.WithContext(ctx).Model(&domain.Article{}).Where("title LIKE ? OR description LIKE ?", like, like)
	return r.page(q, offset, limit, "search articles")
}

func (r *ArticleRepo) page(q *gorm.DB, offset, limit int, op string) ([]domain.Article, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.Datastore("count "+op, err)
	}
	var items []domain.Article
	if err := paginate(q, offset, limit).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, domain.Datastore(op, err)
	}
	return items, total, nil
}

func (r *ArticleRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.Article{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return domain.Datastore("update article", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("article", id)
	}
	return nil
}

func (r *ArticleRepo) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Article{})
	if res.Error != nil {
		return domain.Datastore("soft delete article", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("article", id)
	}
	return nil
}

func (r *ArticleRepo) Recover(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&domain.Article{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return domain.Datastore("recover article", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("article", id)
	}
	return nil
}

// HardDelete 原子过程：junction 行、评论、文章本体一个事务清除
func (r *ArticleRepo) HardDelete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&domain.ArticleCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Where("id = ?", id).Delete(&domain.Article{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound("article", id)
	}
	return domain.Datastore("hard delete article", err)
}

// SoftDeleteMany 返回实际转换的 id：先选出活跃子集再打标，已删的自然跳过
func (r *ArticleRepo) SoftDeleteMany(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var active []string
	if err := r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("id IN ?", ids).Pluck("id", &active).Error; err != nil {
		return nil, domain.Datastore("select active articles", err)
	}
	if len(active) == 0 {
		return nil, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", active).Delete(&domain.Article{}).Error; err != nil {
		return nil, domain.Datastore("bulk soft delete articles", err)
	}
	return active, nil
}

// RecoverMany since 非零时只恢复 deleted_at >= since 的行：
// 级联恢复用它把"级联删掉的"与"作者先前自己删掉的"分开
func (r *ArticleRepo) RecoverMany(ctx context.Context, ids []string, since time.Time) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := r.db.WithContext(ctx).Unscoped().Model(&domain.Article{}).
		Where("id IN ? AND deleted_at IS NOT NULL", ids)
	if !since.IsZero() {
		q = q.Where("deleted_at >= ?", since)
	}
	var eligible []string
	if err := q.Pluck("id", &eligible).Error; err != nil {
		return nil, domain.Datastore("select recoverable articles", err)
	}
	if len(eligible) == 0 {
		return nil, nil
	}
	err := r.db.WithContext(ctx).Unscoped().Model(&domain.Article{}).
		Where("id IN ?", eligible).
		Update("deleted_at", nil).Error
	if err != nil {
		return nil, domain.Datastore("bulk recover articles", err)
	}
	return eligible, nil
}

func (r *ArticleRepo) IDsByAuthor(ctx context.Context, authorID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Unscoped().Model(&domain.Article{}).
		Where("author_id = ?", authorID).Pluck("id", &ids).Error
	return ids, domain.Datastore("list article ids by author", err)
}

func (r *ArticleRepo) OwnedIDs(ctx context.Context, authorID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var owned []string
	err := r.db.WithContext(ctx).Unscoped().Model(&domain.Article{}).
		Where("author_id = ? AND id IN ?", authorID, ids).Pluck("id", &owned).Error
	return owned, domain.Datastore("filter owned article ids", err)
}

func (r *ArticleRepo) FindByIDs(ctx context.Context, ids []string, privileged bool) ([]domain.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.Article
	err := scoped(r.db.WithContext(ctx), privileged).
		Where("id IN ?", ids).Order("created_at DESC").Find(&items).Error
	return items, domain.Datastore("find articles by ids", err)
}

func (r *ArticleRepo) CategoryIDs(ctx context.Context, articleID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.ArticleCategory{}).
		Where("article_id = ?", articleID).Pluck("category_id", &ids).Error
	return ids, domain.Datastore("list article category ids", err)
}

// AddCategories 冲突忽略：并发插入同一 (article, category) 不算失败
func (r *ArticleRepo) AddCategories(ctx context.Context, articleID string, categoryIDs []string) error {
	return domain.Datastore("add article categories",
		insertJunction(r.db.WithContext(ctx), articleID, categoryIDs))
}

func (r *ArticleRepo) RemoveCategories(ctx context.Context, articleID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("article_id = ? AND category_id IN ?", articleID, categoryIDs).
		Delete(&domain.ArticleCategory{}).Error
	return domain.Datastore("remove article categories", err)
}

func (r *ArticleRepo) CategoriesOf(ctx context.Context, articleID string) ([]domain.Category, error) {
	var cats []domain.Category
	err := r.db.WithContext(ctx).Model(&domain.Category{}).
		Joins("JOIN article_categories ac ON ac.category_id = categories.id").
		Where("ac.article_id = ?", articleID).
		Order("categories.value").
		Find(&cats).Error
	return cats, domain.Datastore("load article categories", err)
}

func insertJunction(tx *gorm.DB, articleID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]domain.ArticleCategory, 0, len(categoryIDs))
	for _, cid := range categoryIDs {
		rows = append(rows, domain.ArticleCategory{ArticleID: articleID, CategoryID: cid})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
