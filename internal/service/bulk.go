package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-cms-api/internal/domain"
	"go-cms-api/pkg/pagination"
	"go-cms-api/pkg/utils"
)

// 批量操作协调：一次请求对一串 id 做生命周期转换，按 id 聚合结果。
// 单个 id 的失败不会中断其它 id —— 这是一批独立子操作，不是事务。

type BulkAction string

const (
	BulkSoftDelete BulkAction = "delete"
	BulkRecover    BulkAction = "recover"
)

// BulkMeta 响应 meta 段
type BulkMeta struct {
	TotalRequested    int      `json:"totalRequested"`
	TotalTransitioned int      `json:"totalTransitioned"`
	InvalidIDs        []string `json:"invalidIds"`
	NotFoundIDs       []string `json:"notFoundIds"`
}

type BulkResult struct {
	Articles []domain.Article
	Meta     BulkMeta
}

// BulkTransition 分拣 → 归属收敛 → 转换 → 聚合。
// 全部 id 非法时直接报 ValidationError，不碰数据库。
// page 只约束返回的实体集；limit=0 哨兵要全量。
func (s *ArticleService) BulkTransition(ctx context.Context, p *domain.Principal, ids []string, action BulkAction, page pagination.Page) (*BulkResult, error) {
	if p == nil {
		return nil, domain.Unauthorized("login required")
	}
	if len(ids) == 0 {
		return nil, domain.Validation("ids are required")
	}

	requested := dedupeIDs(ids)
	valid := make([]string, 0, len(requested))
	invalid := make([]string, 0)
	for _, id := range requested {
		if utils.IsValidID(id) {
			valid = append(valid, id)
		} else {
			invalid = append(invalid, id)
		}
	}
	if len(valid) == 0 {
		return nil, &domain.ValidationError{Msg: "all ids are invalid", InvalidIDs: invalid}
	}

	// 非特权调用者只能动自己名下的 id；圈外的 id 落进 notFound，不报错
	eligible := valid
	if !p.Privileged() {
		owned, err := s.articles.OwnedIDs(ctx, p.ID, valid)
		if err != nil {
			return nil, err
		}
		eligible = owned
	}

	var transitioned []string
	var err error
	switch action {
	case BulkRecover:
		transitioned, err = s.articles.RecoverMany(ctx, eligible, time.Time{})
	default:
		transitioned, err = s.articles.SoftDeleteMany(ctx, eligible)
	}
	if err != nil {
		return nil, err
	}

	items, err := s.articles.FindByIDs(ctx, transitioned, true)
	if err != nil {
		return nil, err
	}
	items = window(items, page)

	s.log.Info("bulk transition",
		zap.String("action", string(action)),
		zap.Int("requested", len(requested)),
		zap.Int("transitioned", len(transitioned)),
		zap.Int("invalid", len(invalid)),
	)

	return &BulkResult{
		Articles: items,
		Meta: BulkMeta{
			TotalRequested:    len(requested),
			TotalTransitioned: len(transitioned),
			InvalidIDs:        invalid,
			NotFoundIDs:       subtractIDs(valid, transitioned),
		},
	}, nil
}

// window 对已转换实体集应用返回分页
func window(items []domain.Article, page pagination.Page) []domain.Article {
	if page.Limit <= 0 {
		return items
	}
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
