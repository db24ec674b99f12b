package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-cms-api/internal/domain"
	"go-cms-api/internal/repo"
	"go-cms-api/internal/testutil"
	"go-cms-api/pkg/pagination"
	"go-cms-api/pkg/utils"
)

func newCategoryService(t *testing.T) *CategoryService {
	t.Helper()
	db := testutil.NewDB(t)
	return NewCategoryService(repo.NewCategoryRepo(db), nil, zap.NewNop())
}

func TestCategoryCreateSlugifies(t *testing.T) {
	svc := newCategoryService(t)
	admin := &domain.Principal{ID: utils.NewID(), Role: domain.RoleAdmin}

	c, err := svc.Create(context.Background(), admin, CategoryInput{
		Value: "  Web  Development ", Label: "Web Development",
	})
	require.NoError(t, err)
	assert.Equal(t, "web-development", c.Value)
	assert.Equal(t, "Web Development", c.Label)
}

func TestCategoryConflictExposesExisting(t *testing.T) {
	svc := newCategoryService(t)
	admin := &domain.Principal{ID: utils.NewID(), Role: domain.RoleAdmin}
	ctx := context.Background()

	first, err := svc.Create(ctx, admin, CategoryInput{Value: "go", Label: "Go"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, admin, CategoryInput{Value: "go", Label: "Golang"})
	var cf *domain.ConflictError
	require.ErrorAs(t, err, &cf)
	require.NotNil(t, cf.Existing)
	assert.Equal(t, first.ID, cf.Existing.(*domain.Category).ID)
}

func TestCategoryManagementRequiresAdmin(t *testing.T) {
	svc := newCategoryService(t)
	user := &domain.Principal{ID: utils.NewID(), Role: domain.RoleUser}
	ctx := context.Background()

	var fb *domain.ForbiddenError
	_, err := svc.Create(ctx, user, CategoryInput{Value: "go", Label: "Go"})
	assert.ErrorAs(t, err, &fb)
	_, err = svc.Update(ctx, user, utils.NewID(), CategoryInput{Value: "go", Label: "Go"})
	assert.ErrorAs(t, err, &fb)
	assert.ErrorAs(t, svc.Delete(ctx, user, utils.NewID()), &fb)

	var ua *domain.UnauthorizedError
	_, err = svc.Create(ctx, nil, CategoryInput{Value: "go", Label: "Go"})
	assert.ErrorAs(t, err, &ua)
}

func TestCategoryListOrderedByValue(t *testing.T) {
	svc := newCategoryService(t)
	admin := &domain.Principal{ID: utils.NewID(), Role: domain.RoleAdmin}
	ctx := context.Background()

	for _, v := range []string{"zig", "ada", "go"} {
		_, err := svc.Create(ctx, admin, CategoryInput{Value: v, Label: v})
		require.NoError(t, err)
	}

	items, meta, err := svc.List(ctx, pagination.Page{Page: 1, Limit: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 3, meta.Total)
	assert.Equal(t, 1, meta.Pages)
	values := []string{items[0].Value, items[1].Value, items[2].Value}
	assert.Equal(t, []string{"ada", "go", "zig"}, values)
}
