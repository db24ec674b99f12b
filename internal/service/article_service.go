package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-cms-api/internal/domain"
	"go-cms-api/pkg/pagination"
	"go-cms-api/pkg/utils"
)

const DefaultArticlePageSize = 10

type ArticleService struct {
	articles domain.ArticleRepository
	log      *zap.Logger
}

func NewArticleService(articles domain.ArticleRepository, log *zap.Logger) *ArticleService {
	return &ArticleService{articles: articles, log: log}
}

type CreateArticleInput struct {
	Title       string   `json:"title" binding:"required,max=191"`
	Description string   `json:"description"`
	CategoryIDs []string `json:"categoryIds"`
}

// UpdateArticleInput 指针字段：nil 表示该字段不动。
// CategoryIDs 缺省时不隐式清空分类。
type UpdateArticleInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	CategoryIDs *[]string `json:"categoryIds"`
}

func (s *ArticleService) Create(ctx context.Context, p *domain.Principal, in CreateArticleInput) (*domain.Article, error) {
	if p == nil {
		return nil, domain.Unauthorized("login required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.Validation("title is required")
	}
	a := &domain.Article{
		ID:          utils.NewID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		AuthorID:    p.ID,
	}
	catIDs := dedupeIDs(in.CategoryIDs)
	if err := s.articles.Create(ctx, a, catIDs); err != nil {
		return nil, err
	}
	s.log.Info("article created", zap.String("id", a.ID), zap.String("author", p.ID), zap.Int("categories", len(catIDs)))
	return s.withCategories(ctx, a)
}

func (s *ArticleService) Get(ctx context.Context, p *domain.Principal, id string) (*domain.Article, error) {
	a, err := s.articles.FindByID(ctx, id, p.Privileged())
	if err != nil {
		return nil, err
	}
	return s.withCategories(ctx, a)
}

func (s *ArticleService) List(ctx context.Context, p *domain.Principal, page pagination.Page) ([]domain.Article, pagination.Meta, error) {
	items, total, err := s.articles.List(ctx, page.Offset(), page.Limit, p.Privileged())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.BuildMeta(total), nil
}

func (s *ArticleService) ListByAuthor(ctx context.Context, p *domain.Principal, authorID string, page pagination.Page) ([]domain.Article, pagination.Meta, error) {
	items, total, err := s.articles.ListByAuthor(ctx, authorID, page.Offset(), page.Limit, p.Privileged())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.BuildMeta(total), nil
}

func (s *ArticleService) Search(ctx context.Context, term string, page pagination.Page) ([]domain.Article, pagination.Meta, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, pagination.Meta{}, domain.Validation("search term is required")
	}
	items, total, err := s.articles.Search(ctx, term, page.Offset(), page.Limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.BuildMeta(total), nil
}

// Update 字段更新后跑分类协调：先删后加，结果 junction 集恰等于 requested
func (s *ArticleService) Update(ctx context.Context, p *domain.Principal, id string, in UpdateArticleInput) (*domain.Article, error) {
	a, err := s.authorize(ctx, p, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, domain.Validation("title cannot be empty")
		}
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if len(fields) > 0 {
		if err := s.articles.UpdateFields(ctx, a.ID, fields); err != nil {
			return nil, err
		}
	}

	if in.CategoryIDs != nil {
		if err := s.reconcileCategories(ctx, a.ID, *in.CategoryIDs); err != nil {
			return nil, err
		}
	}

	fresh, err := s.articles.FindByID(ctx, a.ID, p.Privileged())
	if err != nil {
		return nil, err
	}
	return s.withCategories(ctx, fresh)
}

// reconcileCategories 两步顺序执行，非原子；幂等，同一目标集重跑收敛
func (s *ArticleService) reconcileCategories(ctx context.Context, articleID string, requested []string) error {
	current, err := s.articles.CategoryIDs(ctx, articleID)
	if err != nil {
		return err
	}
	toAdd, toRemove := DiffIDs(current, dedupeIDs(requested))
	if len(toAdd) == 0 && len(toRemove) == 0 {
		return nil
	}
	if err := s.articles.RemoveCategories(ctx, articleID, toRemove); err != nil {
		return err
	}
	if err := s.articles.AddCategories(ctx, articleID, toAdd); err != nil {
		return err
	}
	s.log.Info("categories reconciled",
		zap.String("article", articleID),
		zap.Int("added", len(toAdd)),
		zap.Int("removed", len(toRemove)),
	)
	return nil
}

func (s *ArticleService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	if _, err := s.authorize(ctx, p, id); err != nil {
		return err
	}
	return s.articles.SoftDelete(ctx, id)
}

func (s *ArticleService) Recover(ctx context.Context, p *domain.Principal, id string) error {
	if _, err := s.authorize(ctx, p, id); err != nil {
		return err
	}
	return s.articles.Recover(ctx, id)
}

func (s *ArticleService) HardDelete(ctx context.Context, p *domain.Principal, id string) error {
	if p == nil {
		return domain.Unauthorized("login required")
	}
	if !p.Role.Can(domain.PermHardDelete) {
		return domain.Forbidden("hard delete requires admin")
	}
	return s.articles.HardDelete(ctx, id)
}

// authorize 归属检查走全量投影：已软删的行也要能被 owner 操作（恢复）
func (s *ArticleService) authorize(ctx context.Context, p *domain.Principal, id string) (*domain.Article, error) {
	if p == nil {
		return nil, domain.Unauthorized("login required")
	}
	a, err := s.articles.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if !p.Owns(a.AuthorID) {
		return nil, domain.Forbidden("not the article owner")
	}
	return a, nil
}

func (s *ArticleService) withCategories(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	cats, err := s.articles.CategoriesOf(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Categories = cats
	return a, nil
}
