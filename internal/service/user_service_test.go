package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-cms-api/internal/domain"
	"go-cms-api/internal/repo"
	"go-cms-api/internal/testutil"
	"go-cms-api/pkg/utils"
)

type userFixture struct {
	db       *gorm.DB
	svc      *UserService
	users    domain.UserRepository
	articles domain.ArticleRepository
	admin    *domain.Principal
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db := testutil.NewDB(t)
	users := repo.NewUserRepo(db)
	articles := repo.NewArticleRepo(db)
	return &userFixture{
		db:       db,
		svc:      NewUserService(users, articles, zap.NewNop()),
		users:    users,
		articles: articles,
		admin:    &domain.Principal{ID: utils.NewID(), Role: domain.RoleAdmin},
	}
}

func (f *userFixture) register(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), RegisterInput{
		Email: email, Name: "author", Password: "secret-pass-1",
	})
	require.NoError(t, err)
	return u
}

func (f *userFixture) article(t *testing.T, authorID, title string) *domain.Article {
	t.Helper()
	a := &domain.Article{ID: utils.NewID(), Title: title, AuthorID: authorID}
	require.NoError(t, f.articles.Create(context.Background(), a, nil))
	return a
}

func (f *userFixture) deletedAt(t *testing.T, articleID string) *time.Time {
	t.Helper()
	a, err := f.articles.FindByID(context.Background(), articleID, true)
	require.NoError(t, err)
	if !a.DeletedAt.Valid {
		return nil
	}
	at := a.DeletedAt.Time
	return &at
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	f := newUserFixture(t)
	f.register(t, "dup@example.com")

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Email: "Dup@Example.com", Name: "other", Password: "secret-pass-2",
	})
	var cf *domain.ConflictError
	assert.ErrorAs(t, err, &cf)
}

func TestAuthenticateUniformFailure(t *testing.T) {
	f := newUserFixture(t)
	f.register(t, "login@example.com")
	ctx := context.Background()

	u, err := f.svc.Authenticate(ctx, "login@example.com", "secret-pass-1")
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", u.Email)

	var ua *domain.UnauthorizedError
	_, err = f.svc.Authenticate(ctx, "login@example.com", "wrong")
	assert.ErrorAs(t, err, &ua)
	_, err = f.svc.Authenticate(ctx, "nobody@example.com", "secret-pass-1")
	assert.ErrorAs(t, err, &ua)
}

// 级联删除：作者事先自己删掉的 a1 不计入 transitioned
func TestCascadeDeleteSkipsAlreadyDeleted(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u := f.register(t, "cascade@example.com")
	owner := &domain.Principal{ID: u.ID, Role: domain.RoleUser}
	a1 := f.article(t, u.ID, "a1")
	a2 := f.article(t, u.ID, "a2")
	a3 := f.article(t, u.ID, "a3")

	require.NoError(t, f.articles.SoftDelete(ctx, a1.ID))
	time.Sleep(20 * time.Millisecond)

	res, err := f.svc.CascadeDelete(ctx, owner, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Transitioned)
	got := make([]string, 0, len(res.Articles))
	for _, a := range res.Articles {
		got = append(got, a.ID)
	}
	assert.ElementsMatch(t, []string{a2.ID, a3.ID}, got)
	assert.True(t, res.User.DeletedAt.Valid)

	// 三篇最终都处于已删状态
	for _, id := range []string{a1.ID, a2.ID, a3.ID} {
		assert.NotNil(t, f.deletedAt(t, id))
	}
}

// 级联恢复：时间栅栏保住级联之前独立删除的文章
func TestCascadeRecoverFence(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u := f.register(t, "fence@example.com")
	owner := &domain.Principal{ID: u.ID, Role: domain.RoleUser}
	a1 := f.article(t, u.ID, "independently deleted")
	a2 := f.article(t, u.ID, "cascade deleted")

	require.NoError(t, f.articles.SoftDelete(ctx, a1.ID))
	time.Sleep(20 * time.Millisecond)
	_, err := f.svc.CascadeDelete(ctx, owner, u.ID)
	require.NoError(t, err)

	// 普通用户不许恢复
	var fb *domain.ForbiddenError
	_, err = f.svc.CascadeRecover(ctx, owner, u.ID)
	assert.ErrorAs(t, err, &fb)

	res, err := f.svc.CascadeRecover(ctx, f.admin, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Transitioned)
	require.Len(t, res.Articles, 1)
	assert.Equal(t, a2.ID, res.Articles[0].ID)

	assert.NotNil(t, f.deletedAt(t, a1.ID), "independently deleted article stays deleted")
	assert.Nil(t, f.deletedAt(t, a2.ID))
	assert.False(t, res.User.DeletedAt.Valid)
}

func TestUserLifecycleIdempotence(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u := f.register(t, "idem@example.com")
	owner := &domain.Principal{ID: u.ID, Role: domain.RoleUser}

	_, err := f.svc.CascadeDelete(ctx, owner, u.ID)
	require.NoError(t, err)

	// 已删用户再删 → NotFound
	var nf *domain.NotFoundError
	_, err = f.svc.CascadeDelete(ctx, owner, u.ID)
	assert.ErrorAs(t, err, &nf)

	_, err = f.svc.CascadeRecover(ctx, f.admin, u.ID)
	require.NoError(t, err)
	// 已活跃再恢复 → NotFound
	_, err = f.svc.CascadeRecover(ctx, f.admin, u.ID)
	assert.ErrorAs(t, err, &nf)
}

func TestBulkCascadeDelete(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u1 := f.register(t, "one@example.com")
	u2 := f.register(t, "two@example.com")
	f.article(t, u1.ID, "owned by one")
	missing := utils.NewID()

	// 仅 admin
	var fb *domain.ForbiddenError
	_, err := f.svc.BulkCascadeDelete(ctx, &domain.Principal{ID: u1.ID, Role: domain.RoleUser}, []string{u1.ID})
	assert.ErrorAs(t, err, &fb)

	meta, err := f.svc.BulkCascadeDelete(ctx, f.admin, []string{u1.ID, u2.ID, missing, "garbage"})
	require.NoError(t, err)
	assert.Equal(t, 4, meta.TotalRequested)
	assert.Equal(t, 2, meta.TotalDeleted)
	assert.Equal(t, 1, meta.Transitioned)
	assert.ElementsMatch(t, []string{"garbage"}, meta.InvalidIDs)
	assert.ElementsMatch(t, []string{missing}, meta.NotFoundIDs)

	// 全部非法直接拒绝
	var vd *domain.ValidationError
	_, err = f.svc.BulkCascadeDelete(ctx, f.admin, []string{"x"})
	assert.ErrorAs(t, err, &vd)
}

func TestHardDeleteUserPurgesEverything(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u := f.register(t, "purge@example.com")
	a := f.article(t, u.ID, "to purge")
	comments := repo.NewCommentRepo(f.db)
	require.NoError(t, comments.Create(ctx, &domain.Comment{
		ID: utils.NewID(), Content: "bye", ArticleID: a.ID, UserID: u.ID,
	}))

	var fb *domain.ForbiddenError
	owner := &domain.Principal{ID: u.ID, Role: domain.RoleUser}
	assert.ErrorAs(t, f.svc.HardDelete(ctx, owner, u.ID), &fb)

	require.NoError(t, f.svc.HardDelete(ctx, f.admin, u.ID))

	var nf *domain.NotFoundError
	_, err := f.users.FindByID(ctx, u.ID, true)
	assert.ErrorAs(t, err, &nf)
	_, err = f.articles.FindByID(ctx, a.ID, true)
	assert.ErrorAs(t, err, &nf)
	var n int64
	require.NoError(t, f.db.Model(&domain.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdateProfileOwnership(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u := f.register(t, "profile@example.com")
	owner := &domain.Principal{ID: u.ID, Role: domain.RoleUser}
	name := "renamed"

	got, err := f.svc.UpdateProfile(ctx, owner, u.ID, UpdateUserInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	stranger := &domain.Principal{ID: utils.NewID(), Role: domain.RoleUser}
	var fb *domain.ForbiddenError
	_, err = f.svc.UpdateProfile(ctx, stranger, u.ID, UpdateUserInput{Name: &name})
	assert.ErrorAs(t, err, &fb)

	var vd *domain.ValidationError
	_, err = f.svc.UpdateProfile(ctx, owner, u.ID, UpdateUserInput{})
	assert.ErrorAs(t, err, &vd)
}
