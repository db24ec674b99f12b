package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cms-api/internal/domain"
	"go-cms-api/internal/testutil"
	"go-cms-api/pkg/utils"
)

func seedArticle(t *testing.T, r *ArticleRepo, title string, categoryIDs ...string) *domain.Article {
	t.Helper()
	a := &domain.Article{ID: utils.NewID(), Title: title, AuthorID: utils.NewID()}
	require.NoError(t, r.Create(context.Background(), a, categoryIDs))
	return a
}

func TestSoftDeleteGuard(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewArticleRepo(db)
	ctx := context.Background()
	a := seedArticle(t, r, "guarded")

	require.NoError(t, r.SoftDelete(ctx, a.ID))

	// 删除只命中活跃行：重复删除 0 行 → NotFound
	var nf *domain.NotFoundError
	assert.ErrorAs(t, r.SoftDelete(ctx, a.ID), &nf)
	assert.ErrorAs(t, r.SoftDelete(ctx, utils.NewID()), &nf)

	// 默认投影不可见，全量投影可见
	_, err := r.FindByID(ctx, a.ID, false)
	assert.ErrorAs(t, err, &nf)
	got, err := r.FindByID(ctx, a.ID, true)
	require.NoError(t, err)
	assert.True(t, got.DeletedAt.Valid)
}

func TestRecoverGuard(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewArticleRepo(db)
	ctx := context.Background()
	a := seedArticle(t, r, "recoverable")

	// 活跃行不可恢复
	var nf *domain.NotFoundError
	assert.ErrorAs(t, r.Recover(ctx, a.ID), &nf)

	require.NoError(t, r.SoftDelete(ctx, a.ID))
	require.NoError(t, r.Recover(ctx, a.ID))

	got, err := r.FindByID(ctx, a.ID, false)
	require.NoError(t, err)
	assert.False(t, got.DeletedAt.Valid)
}

func TestJunctionInsertIgnoresConflict(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewArticleRepo(db)
	ctx := context.Background()

	cat := utils.NewID()
	a := seedArticle(t, r, "tagged", cat)

	// 已存在的 (article, category) 再插一遍不报错、不翻倍
	require.NoError(t, r.AddCategories(ctx, a.ID, []string{cat}))
	ids, err := r.CategoryIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{cat}, ids)
}

func TestListProjections(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewArticleRepo(db)
	ctx := context.Background()

	live := seedArticle(t, r, "live")
	dead := seedArticle(t, r, "dead")
	require.NoError(t, r.SoftDelete(ctx, dead.ID))

	items, total, err := r.List(ctx, 0, 10, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, live.ID, items[0].ID)

	_, total, err = r.List(ctx, 0, 10, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestRecoverManyFence(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewArticleRepo(db)
	ctx := context.Background()

	early := seedArticle(t, r, "early")
	late := seedArticle(t, r, "late")

	require.NoError(t, r.SoftDelete(ctx, early.ID))
	time.Sleep(20 * time.Millisecond)
	fence := time.Now()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, r.SoftDelete(ctx, late.ID))

	recovered, err := r.RecoverMany(ctx, []string{early.ID, late.ID}, fence)
	require.NoError(t, err)
	assert.Equal(t, []string{late.ID}, recovered)

	// since 零值不设栅栏
	recovered, err = r.RecoverMany(ctx, []string{early.ID, late.ID}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []string{early.ID}, recovered)
}

func TestSoftDeleteManyReturnsTransitioned(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewArticleRepo(db)
	ctx := context.Background()

	a := seedArticle(t, r, "a")
	b := seedArticle(t, r, "b")
	require.NoError(t, r.SoftDelete(ctx, a.ID))

	transitioned, err := r.SoftDeleteMany(ctx, []string{a.ID, b.ID, utils.NewID()})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, transitioned)

	transitioned, err = r.SoftDeleteMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, transitioned)
}

func TestCategoryConflictCarriesExisting(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewCategoryRepo(db)
	ctx := context.Background()

	first := &domain.Category{ID: utils.NewID(), Value: "go", Label: "Go"}
	require.NoError(t, r.Create(ctx, first))

	err := r.Create(ctx, &domain.Category{ID: utils.NewID(), Value: "go", Label: "Golang"})
	var cf *domain.ConflictError
	require.ErrorAs(t, err, &cf)
	require.NotNil(t, cf.Existing)
	assert.Equal(t, first.ID, cf.Existing.(*domain.Category).ID)

	// label 撞车同样拦下
	err = r.Create(ctx, &domain.Category{ID: utils.NewID(), Value: "golang", Label: "Go"})
	assert.ErrorAs(t, err, &cf)
}

func TestUserDeletedAtOf(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()

	u := &domain.User{ID: utils.NewID(), Email: "at@example.com", Name: "n", PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, r.Create(ctx, u))

	at, err := r.DeletedAtOf(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, at)

	require.NoError(t, r.SoftDelete(ctx, u.ID))
	at, err = r.DeletedAtOf(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, at)
	assert.WithinDuration(t, time.Now(), *at, 5*time.Second)
}
