package service

import (
	"context"
	"testing"

	"agora/internal/listing"
	"agora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_ListCategories(t *testing.T) {
	t.Parallel()

	t.Run("customers only see public categories", func(t *testing.T) {
		t.Parallel()
		repo := noopCategoryRepo()
		var sawPrivate bool
		repo.listFn = func(_ context.Context, _ string, includePrivate bool, _ listing.Order, _, _ int) ([]*models.Category, error) {
			sawPrivate = includePrivate
			return nil, nil
		}
		svc := NewCategoryService(repo, noopTopicRepo())

		_, err := svc.ListCategories(context.Background(), customer(1), "", listing.Order{By: "name"}, 20, 0)
		require.NoError(t, err)
		assert.False(t, sawPrivate)
	})

	t.Run("admins see private categories", func(t *testing.T) {
		t.Parallel()
		repo := noopCategoryRepo()
		var sawPrivate bool
		repo.listFn = func(_ context.Context, _ string, includePrivate bool, _ listing.Order, _, _ int) ([]*models.Category, error) {
			sawPrivate = includePrivate
			return nil, nil
		}
		svc := NewCategoryService(repo, noopTopicRepo())

		_, err := svc.ListCategories(context.Background(), admin(1), "", listing.Order{By: "name"}, 20, 0)
		require.NoError(t, err)
		assert.True(t, sawPrivate)
	})
}

func TestCategoryService_GetCategory(t *testing.T) {
	t.Parallel()

	privateRepo := func() *categoryRepoStub {
		repo := noopCategoryRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "staff", IsPrivate: true}, nil
		}
		return repo
	}

	t.Run("attaches topics", func(t *testing.T) {
		t.Parallel()
		topics := noopTopicRepo()
		topics.listByCategoryFn = func(_ context.Context, categoryID uint, _ string, _ bool, _ listing.Order, _, _ int) ([]*models.Topic, error) {
			return []*models.Topic{{ID: 4, CategoryID: categoryID}}, nil
		}
		svc := NewCategoryService(noopCategoryRepo(), topics)

		category, err := svc.GetCategory(context.Background(), customer(1), 2, "", listing.Order{}, 20, 0)
		require.NoError(t, err)
		require.Len(t, category.Topics, 1)
		assert.Equal(t, uint(4), category.Topics[0].ID)
	})

	t.Run("anonymous hits private category", func(t *testing.T) {
		t.Parallel()
		svc := NewCategoryService(privateRepo(), noopTopicRepo())

		_, err := svc.GetCategory(context.Background(), nil, 2, "", listing.Order{}, 20, 0)
		assertUnauthenticatedError(t, err)
	})

	t.Run("customer hits private category", func(t *testing.T) {
		t.Parallel()
		svc := NewCategoryService(privateRepo(), noopTopicRepo())

		_, err := svc.GetCategory(context.Background(), customer(1), 2, "", listing.Order{}, 20, 0)
		assertUnauthorizedError(t, err)
	})

	t.Run("admin reads private category", func(t *testing.T) {
		t.Parallel()
		svc := NewCategoryService(privateRepo(), noopTopicRepo())

		category, err := svc.GetCategory(context.Background(), admin(1), 2, "", listing.Order{}, 20, 0)
		require.NoError(t, err)
		assert.True(t, category.IsPrivate)
	})
}

func TestCategoryService_CreateCategory(t *testing.T) {
	t.Parallel()

	t.Run("admin creates", func(t *testing.T) {
		t.Parallel()
		repo := noopCategoryRepo()
		repo.createFn = func(_ context.Context, category *models.Category) error {
			category.ID = 11
			return nil
		}
		svc := NewCategoryService(repo, noopTopicRepo())

		category, err := svc.CreateCategory(context.Background(), admin(1), CreateCategoryInput{
			Name:        "General",
			Description: "Anything goes",
		})
		require.NoError(t, err)
		assert.Equal(t, uint(11), category.ID)
	})

	t.Run("customer cannot create", func(t *testing.T) {
		t.Parallel()
		svc := NewCategoryService(noopCategoryRepo(), noopTopicRepo())

		_, err := svc.CreateCategory(context.Background(), customer(1), CreateCategoryInput{
			Name:        "General",
			Description: "Anything goes",
		})
		assertUnauthorizedError(t, err)
	})

	t.Run("name too short", func(t *testing.T) {
		t.Parallel()
		svc := NewCategoryService(noopCategoryRepo(), noopTopicRepo())

		_, err := svc.CreateCategory(context.Background(), admin(1), CreateCategoryInput{
			Name:        "ab",
			Description: "Anything goes",
		})
		assertValidationError(t, err)
	})
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	t.Parallel()

	t.Run("privacy change cascades", func(t *testing.T) {
		t.Parallel()
		repo := noopCategoryRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "General", Description: "Anything goes", IsPrivate: false}, nil
		}
		var cascaded, updated bool
		repo.cascadeFn = func(_ context.Context, category *models.Category) error {
			cascaded = true
			assert.True(t, category.IsPrivate)
			return nil
		}
		repo.updateFn = func(_ context.Context, _ *models.Category) error {
			updated = true
			return nil
		}
		svc := NewCategoryService(repo, noopTopicRepo())

		isPrivate := true
		category, err := svc.UpdateCategory(context.Background(), admin(1), 2, UpdateCategoryInput{IsPrivate: &isPrivate})
		require.NoError(t, err)
		assert.True(t, category.IsPrivate)
		assert.True(t, cascaded)
		assert.False(t, updated)
	})

	t.Run("going public never cascades to topics", func(t *testing.T) {
		t.Parallel()
		repo := noopCategoryRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "Staff Lounge", Description: "Internal staff coordination.", IsPrivate: true}, nil
		}
		var cascaded bool
		var saved *models.Category
		repo.cascadeFn = func(_ context.Context, _ *models.Category) error {
			cascaded = true
			return nil
		}
		repo.updateFn = func(_ context.Context, category *models.Category) error {
			saved = category
			return nil
		}
		svc := NewCategoryService(repo, noopTopicRepo())

		isPrivate := false
		category, err := svc.UpdateCategory(context.Background(), admin(1), 2, UpdateCategoryInput{IsPrivate: &isPrivate})
		require.NoError(t, err)
		assert.False(t, category.IsPrivate)
		assert.False(t, cascaded)
		require.NotNil(t, saved)
		assert.False(t, saved.IsPrivate)
	})

	t.Run("unchanged privacy takes the plain update path", func(t *testing.T) {
		t.Parallel()
		repo := noopCategoryRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "General", Description: "Anything goes", IsPrivate: true}, nil
		}
		var cascaded, updated bool
		repo.cascadeFn = func(_ context.Context, _ *models.Category) error {
			cascaded = true
			return nil
		}
		repo.updateFn = func(_ context.Context, _ *models.Category) error {
			updated = true
			return nil
		}
		svc := NewCategoryService(repo, noopTopicRepo())

		isPrivate := true
		name := "Staff room"
		_, err := svc.UpdateCategory(context.Background(), admin(1), 2, UpdateCategoryInput{Name: &name, IsPrivate: &isPrivate})
		require.NoError(t, err)
		assert.False(t, cascaded)
		assert.True(t, updated)
	})

	t.Run("customer cannot update", func(t *testing.T) {
		t.Parallel()
		svc := NewCategoryService(noopCategoryRepo(), noopTopicRepo())

		name := "Renamed"
		_, err := svc.UpdateCategory(context.Background(), customer(1), 2, UpdateCategoryInput{Name: &name})
		assertUnauthorizedError(t, err)
	})
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	t.Parallel()

	t.Run("admin deletes", func(t *testing.T) {
		t.Parallel()
		repo := noopCategoryRepo()
		var deleted uint
		repo.deleteFn = func(_ context.Context, id uint) error {
			deleted = id
			return nil
		}
		svc := NewCategoryService(repo, noopTopicRepo())

		require.NoError(t, svc.DeleteCategory(context.Background(), admin(1), 6))
		assert.Equal(t, uint(6), deleted)
	})

	t.Run("customer cannot delete", func(t *testing.T) {
		t.Parallel()
		svc := NewCategoryService(noopCategoryRepo(), noopTopicRepo())

		err := svc.DeleteCategory(context.Background(), customer(1), 6)
		assertUnauthorizedError(t, err)
	})
}
