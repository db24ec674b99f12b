package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-cms-api/internal/domain"
	"go-cms-api/pkg/pagination"
	"go-cms-api/pkg/utils"
)

const DefaultCommentPageSize = 10

type CommentService struct {
	comments domain.CommentRepository
	articles domain.ArticleRepository
	log      *zap.Logger
}

func NewCommentService(comments domain.CommentRepository, articles domain.ArticleRepository, log *zap.Logger) *CommentService {
	return &CommentService{comments: comments, articles: articles, log: log}
}

type CreateCommentInput struct {
	Content string `json:"content" binding:"required,max=2000"`
}

func (s *CommentService) Create(ctx context.Context, p *domain.Principal, articleID string, in CreateCommentInput) (*domain.Comment, error) {
	if p == nil {
		return nil, domain.Unauthorized("login required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, domain.Validation("content is required")
	}
	// 只允许评论活跃文章
	if _, err := s.articles.FindByID(ctx, articleID, false); err != nil {
		return nil, err
	}
	c := &domain.Comment{
		ID:        utils.NewID(),
		Content:   strings.TrimSpace(in.Content),
		ArticleID: articleID,
		UserID:    p.ID,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) ListByArticle(ctx context.Context, articleID string, page pagination.Page) ([]domain.Comment, pagination.Meta, error) {
	items, total, err := s.comments.ListByArticle(ctx, articleID, page.Offset(), page.Limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.BuildMeta(total), nil
}

// Delete 本人或 admin
func (s *CommentService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	if p == nil {
		return domain.Unauthorized("login required")
	}
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.Owns(c.UserID) {
		return domain.Forbidden("not the comment owner")
	}
	if err := s.comments.HardDelete(ctx, id); err != nil {
		return err
	}
	s.log.Info("comment deleted", zap.String("id", id), zap.String("by", p.ID))
	return nil
}
