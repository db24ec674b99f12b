package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-cms-api/internal/core/cache"
	"go-cms-api/internal/domain"
	"go-cms-api/pkg/pagination"
	"go-cms-api/pkg/utils"
)

const (
	DefaultCategoryPageSize = 10
	categoryListKey         = "cms:categories:all"
	categoryListTTL         = 5 * time.Minute
)

type CategoryService struct {
	categories domain.CategoryRepository
	cache      *cache.Cache // 可为 nil（测试/降级）
	log        *zap.Logger
}

func NewCategoryService(categories domain.CategoryRepository, c *cache.Cache, log *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, cache: c, log: log}
}

type CategoryInput struct {
	Value string `json:"value" binding:"required,max=100"`
	Label string `json:"label" binding:"required,max=100"`
}

func (s *CategoryService) Create(ctx context.Context, p *domain.Principal, in CategoryInput) (*domain.Category, error) {
	if err := requirePerm(p, domain.PermManageCategories); err != nil {
		return nil, err
	}
	value := slugify(in.Value)
	label := strings.TrimSpace(in.Label)
	if value == "" || label == "" {
		return nil, domain.Validation("value and label are required")
	}
	c := &domain.Category{ID: utils.NewID(), Value: value, Label: label}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// List limit=0 的全量列表走 redis 读穿缓存（singleflight 合并回源）
func (s *CategoryService) List(ctx context.Context, page pagination.Page) ([]domain.Category, pagination.Meta, error) {
	if page.Limit == 0 && s.cache != nil {
		type cached struct {
			Items []domain.Category `json:"items"`
			Total int64             `json:"total"`
		}
		out, err := cache.GetOrLoadJSON[cached](s.cache, ctx, categoryListKey, categoryListTTL,
			func(ctx context.Context) (*cached, error) {
				items, total, err := s.categories.List(ctx, 0, 0)
				if err != nil {
					return nil, err
				}
				return &cached{Items: items, Total: total}, nil
			})
		if err == nil && out != nil {
			return out.Items, page.BuildMeta(out.Total), nil
		}
		// 缓存失败只记日志，回落直查
		if err != nil {
			s.log.Warn("category cache bypass", zap.Error(err))
		}
	}
	items, total, err := s.categories.List(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.BuildMeta(total), nil
}

func (s *CategoryService) Update(ctx context.Context, p *domain.Principal, id string, in CategoryInput) (*domain.Category, error) {
	if err := requirePerm(p, domain.PermManageCategories); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if v := slugify(in.Value); v != "" {
		fields["value"] = v
	}
	if l := strings.TrimSpace(in.Label); l != "" {
		fields["label"] = l
	}
	if len(fields) == 0 {
		return nil, domain.Validation("empty update payload")
	}
	if err := s.categories.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.categories.FindByID(ctx, id)
}

func (s *CategoryService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	if err := requirePerm(p, domain.PermManageCategories); err != nil {
		return err
	}
	if err := s.categories.HardDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, categoryListKey); err != nil {
		s.log.Warn("category cache invalidate failed", zap.Error(err))
	}
}

func requirePerm(p *domain.Principal, perm domain.Permission) error {
	if p == nil {
		return domain.Unauthorized("login required")
	}
	if !p.Role.Can(perm) {
		return domain.Forbidden("insufficient role")
	}
	return nil
}

// slugify 规整 value：小写、空白折叠成连字符
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}
