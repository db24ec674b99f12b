package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-cms-api/internal/domain"
	"go-cms-api/pkg/pagination"
	"go-cms-api/pkg/utils"
)

const DefaultUserPageSize = 5

type UserService struct {
	users    domain.UserRepository
	articles domain.ArticleRepository
	log      *zap.Logger
}

func NewUserService(users domain.UserRepository, articles domain.ArticleRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, articles: articles, log: log}
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=64"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateUserInput struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
	Bio    *string `json:"bio"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.Validation("email and name are required")
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: utils.HashPassword(in.Password),
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("id", u.ID))
	return u, nil
}

// Authenticate 凭据错误统一报 Unauthorized，不区分"无此用户/密码错"
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return nil, domain.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.Unauthorized("invalid credentials")
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, p *domain.Principal, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id, p.Privileged())
}

func (s *UserService) List(ctx context.Context, p *domain.Principal, page pagination.Page) ([]domain.User, pagination.Meta, error) {
	items, total, err := s.users.List(ctx, page.Offset(), page.Limit, p.Privileged())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.BuildMeta(total), nil
}

func (s *UserService) Search(ctx context.Context, term string, page pagination.Page) ([]domain.User, pagination.Meta, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, pagination.Meta{}, domain.Validation("search term is required")
	}
	items, total, err := s.users.Search(ctx, term, page.Offset(), page.Limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.BuildMeta(total), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, p *domain.Principal, id string, in UpdateUserInput) (*domain.User, error) {
	if p == nil {
		return nil, domain.Unauthorized("login required")
	}
	if !p.Owns(id) {
		return nil, domain.Forbidden("cannot modify another user")
	}
	fields := map[string]any{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.Validation("name cannot be empty")
		}
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Avatar != nil {
		fields["avatar"] = *in.Avatar
	}
	if in.Bio != nil {
		fields["bio"] = *in.Bio
	}
	if len(fields) == 0 {
		return nil, domain.Validation("empty update payload")
	}
	if err := s.users.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id, p.Privileged())
}

// CascadeResult 级联结果：user 加上实际发生转换的文章
type CascadeResult struct {
	User         *domain.User     `json:"user"`
	Articles     []domain.Article `json:"articles"`
	Transitioned int              `json:"transitioned"`
}

// CascadeDelete 用户级软删向名下文章传播。
// 步骤独立下发、无事务包裹：第 1 步失败立刻中止不碰文章；
// 第 3 步里已删的文章被跳过，不算错误（best effort；重跑可收敛）。
func (s *UserService) CascadeDelete(ctx context.Context, p *domain.Principal, userID string) (*CascadeResult, error) {
	if p == nil {
		return nil, domain.Unauthorized("login required")
	}
	if !p.Owns(userID) {
		return nil, domain.Forbidden("cannot delete another user")
	}

	if err := s.users.SoftDelete(ctx, userID); err != nil {
		return nil, err
	}

	ids, err := s.articles.IDsByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	transitioned, err := s.articles.SoftDeleteMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	s.log.Info("user cascade deleted",
		zap.String("user", userID),
		zap.Int("articles", len(ids)),
		zap.Int("transitioned", len(transitioned)),
	)
	return s.cascadeResult(ctx, userID, transitioned)
}

// CascadeRecover 镜像操作：先恢复用户，再恢复同一批名下文章。
// 时间栅栏：只恢复 deleted_at 不早于用户删除时刻的文章 ——
// 作者在级联之前自己删掉的文章保持原状。
func (s *UserService) CascadeRecover(ctx context.Context, p *domain.Principal, userID string) (*CascadeResult, error) {
	if p == nil {
		return nil, domain.Unauthorized("login required")
	}
	if !p.Role.Can(domain.PermRecoverAny) {
		return nil, domain.Forbidden("recover requires admin")
	}

	fence := time.Time{}
	if at, err := s.users.DeletedAtOf(ctx, userID); err != nil {
		return nil, err
	} else if at != nil {
		fence = *at
	}

	if err := s.users.Recover(ctx, userID); err != nil {
		return nil, err
	}

	ids, err := s.articles.IDsByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	recovered, err := s.articles.RecoverMany(ctx, ids, fence)
	if err != nil {
		return nil, err
	}

	s.log.Info("user cascade recovered",
		zap.String("user", userID),
		zap.Int("recovered", len(recovered)),
	)
	return s.cascadeResult(ctx, userID, recovered)
}

// BulkCascadeMeta 批量级联删除的聚合结果；Transitioned 统计联动的文章数
type BulkCascadeMeta struct {
	TotalRequested int      `json:"totalRequested"`
	TotalDeleted   int      `json:"totalDeleted"`
	InvalidIDs     []string `json:"invalidIds"`
	NotFoundIDs    []string `json:"notFoundIds"`
	Transitioned   int      `json:"transitioned"`
}

// BulkCascadeDelete 管理端批量级联删除：每个 id 独立跑级联，
// 单个 id 的状态不匹配不拖垮整批
func (s *UserService) BulkCascadeDelete(ctx context.Context, p *domain.Principal, ids []string) (*BulkCascadeMeta, error) {
	if p == nil {
		return nil, domain.Unauthorized("login required")
	}
	if !p.Role.Can(domain.PermMutateAny) {
		return nil, domain.Forbidden("bulk user delete requires admin")
	}
	requested := dedupeIDs(ids)
	if len(requested) == 0 {
		return nil, domain.Validation("ids are required")
	}
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

	meta := &BulkCascadeMeta{
		TotalRequested: len(requested),
		InvalidIDs:     invalid,
		NotFoundIDs:    make([]string, 0),
	}
	for _, id := range valid {
		res, err := s.CascadeDelete(ctx, p, id)
		if err != nil {
			var nf *domain.NotFoundError
			if errors.As(err, &nf) {
				meta.NotFoundIDs = append(meta.NotFoundIDs, id)
				continue
			}
			return nil, err
		}
		meta.TotalDeleted++
		meta.Transitioned += res.Transitioned
	}
	s.log.Info("bulk user cascade delete",
		zap.Int("requested", meta.TotalRequested),
		zap.Int("deleted", meta.TotalDeleted),
		zap.Int("articles", meta.Transitioned),
	)
	return meta, nil
}

func (s *UserService) HardDelete(ctx context.Context, p *domain.Principal, userID string) error {
	if p == nil {
		return domain.Unauthorized("login required")
	}
	if !p.Role.Can(domain.PermHardDelete) {
		return domain.Forbidden("hard delete requires admin")
	}
	// 文章逐篇走原子清除过程（junction + 评论同行清理）
	ids, err := s.articles.IDsByAuthor(ctx, userID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.articles.HardDelete(ctx, id); err != nil {
			var nf *domain.NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			return err
		}
	}
	return s.users.HardDelete(ctx, userID)
}

func (s *UserService) cascadeResult(ctx context.Context, userID string, articleIDs []string) (*CascadeResult, error) {
	u, err := s.users.FindByID(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	arts, err := s.articles.FindByIDs(ctx, articleIDs, true)
	if err != nil {
		return nil, err
	}
	return &CascadeResult{User: u, Articles: arts, Transitioned: len(articleIDs)}, nil
}
