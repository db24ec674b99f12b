package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-cms-api/internal/domain"
	"go-cms-api/internal/repo"
	"go-cms-api/internal/testutil"
	"go-cms-api/pkg/utils"
)

type articleFixture struct {
	db       *gorm.DB
	svc      *ArticleService
	articles domain.ArticleRepository
	author   *domain.Principal
	admin    *domain.Principal
	catA     string
	catB     string
	catC     string
}

func newArticleFixture(t *testing.T) *articleFixture {
	t.Helper()
	db := testutil.NewDB(t)
	articles := repo.NewArticleRepo(db)
	cats := repo.NewCategoryRepo(db)
	ctx := context.Background()

	f := &articleFixture{
		db:       db,
		svc:      NewArticleService(articles, zap.NewNop()),
		articles: articles,
		author:   &domain.Principal{ID: utils.NewID(), Role: domain.RoleUser},
		admin:    &domain.Principal{ID: utils.NewID(), Role: domain.RoleAdmin},
	}
	for _, c := range []struct {
		id    *string
		value string
	}{
		{&f.catA, "go"},
		{&f.catB, "databases"},
		{&f.catC, "testing"},
	} {
		cat := &domain.Category{ID: utils.NewID(), Value: c.value, Label: c.value}
		require.NoError(t, cats.Create(ctx, cat))
		*c.id = cat.ID
	}
	return f
}

func (f *articleFixture) junction(t *testing.T, articleID string) []string {
	t.Helper()
	ids, err := f.articles.CategoryIDs(context.Background(), articleID)
	require.NoError(t, err)
	return ids
}

func TestCreateWithCategories(t *testing.T) {
	f := newArticleFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, f.author, CreateArticleInput{
		Title:       "soft deletes in practice",
		CategoryIDs: []string{f.catA, f.catB, f.catA}, // 重复 id 折叠
	})
	require.NoError(t, err)
	assert.Equal(t, f.author.ID, a.AuthorID)
	assert.ElementsMatch(t, []string{f.catA, f.catB}, f.junction(t, a.ID))
	assert.Len(t, a.Categories, 2)
}

func TestUpdateReconcilesCategories(t *testing.T) {
	f := newArticleFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, f.author, CreateArticleInput{
		Title:       "reconciliation",
		CategoryIDs: []string{f.catA, f.catB},
	})
	require.NoError(t, err)

	// {A,B} → {B,C}：A 移除、C 加入、B 不动
	req := []string{f.catB, f.catC}
	_, err = f.svc.Update(ctx, f.author, a.ID, UpdateArticleInput{CategoryIDs: &req})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.catB, f.catC}, f.junction(t, a.ID))

	// 同一目标集重跑收敛（幂等）
	_, err = f.svc.Update(ctx, f.author, a.ID, UpdateArticleInput{CategoryIDs: &req})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.catB, f.catC}, f.junction(t, a.ID))

	// S → ∅
	empty := []string{}
	_, err = f.svc.Update(ctx, f.author, a.ID, UpdateArticleInput{CategoryIDs: &empty})
	require.NoError(t, err)
	assert.Empty(t, f.junction(t, a.ID))

	// ∅ → S
	req = []string{f.catA}
	_, err = f.svc.Update(ctx, f.author, a.ID, UpdateArticleInput{CategoryIDs: &req})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.catA}, f.junction(t, a.ID))
}

func TestUpdateOmittedCategoriesUntouched(t *testing.T) {
	f := newArticleFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, f.author, CreateArticleInput{
		Title:       "omitted set",
		CategoryIDs: []string{f.catA},
	})
	require.NoError(t, err)

	title := "renamed"
	_, err = f.svc.Update(ctx, f.author, a.ID, UpdateArticleInput{Title: &title})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.catA}, f.junction(t, a.ID))
}

func TestUpdateForbiddenForNonOwner(t *testing.T) {
	f := newArticleFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, f.author, CreateArticleInput{Title: "mine"})
	require.NoError(t, err)

	stranger := &domain.Principal{ID: utils.NewID(), Role: domain.RoleUser}
	title := "taken over"
	_, err = f.svc.Update(ctx, stranger, a.ID, UpdateArticleInput{Title: &title})
	var fb *domain.ForbiddenError
	assert.ErrorAs(t, err, &fb)

	// admin 可以
	_, err = f.svc.Update(ctx, f.admin, a.ID, UpdateArticleInput{Title: &title})
	assert.NoError(t, err)
}

func TestSoftDeleteLifecycleIdempotence(t *testing.T) {
	f := newArticleFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, f.author, CreateArticleInput{Title: "lifecycle"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.author, a.ID))

	// 已删再删 → NotFound，状态不变
	err = f.svc.Delete(ctx, f.author, a.ID)
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)

	// 非特权读不到已删行
	_, err = f.svc.Get(ctx, f.author, a.ID)
	assert.ErrorAs(t, err, &nf)
	// 特权投影读得到
	got, err := f.svc.Get(ctx, f.admin, a.ID)
	require.NoError(t, err)
	assert.True(t, got.DeletedAt.Valid)

	require.NoError(t, f.svc.Recover(ctx, f.author, a.ID))
	// 已活跃再恢复 → NotFound
	assert.ErrorAs(t, f.svc.Recover(ctx, f.author, a.ID), &nf)
}

func TestHardDeletePurgesJunctionAndComments(t *testing.T) {
	f := newArticleFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, f.author, CreateArticleInput{
		Title:       "purge",
		CategoryIDs: []string{f.catA, f.catB},
	})
	require.NoError(t, err)

	comments := repo.NewCommentRepo(f.db)
	require.NoError(t, comments.Create(ctx, &domain.Comment{
		ID: utils.NewID(), Content: "nice", ArticleID: a.ID, UserID: f.author.ID,
	}))

	// 非 admin 被拒
	var fb *domain.ForbiddenError
	assert.ErrorAs(t, f.svc.HardDelete(ctx, f.author, a.ID), &fb)

	require.NoError(t, f.svc.HardDelete(ctx, f.admin, a.ID))
	assert.Empty(t, f.junction(t, a.ID))

	var n int64
	require.NoError(t, f.db.Model(&domain.Comment{}).Where("article_id = ?", a.ID).Count(&n).Error)
	assert.Zero(t, n)

	// Purged 是终态
	var nf *domain.NotFoundError
	_, err = f.svc.Get(ctx, f.admin, a.ID)
	assert.ErrorAs(t, err, &nf)
}
