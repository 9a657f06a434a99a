package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestGORMCartRepository_UpsertMergesQuantity(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMCartRepository(openTestDB(t))

	firstID, err := repo.Upsert(ctx, &models.CartItem{UserID: 1, ProductID: 7, Email: "ann@x.com", Title: "T", Price: 9.99, Quantity: 2})
	require.NoError(t, err)
	secondID, err := repo.Upsert(ctx, &models.CartItem{UserID: 1, ProductID: 7, Email: "new@x.com", Title: "T2", Price: 5, Image: "img.png", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)

	items, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "T2", items[0].Title)
	assert.Equal(t, 5.0, items[0].Price)
	assert.Equal(t, "img.png", items[0].Image)
	assert.Equal(t, "ann@x.com", items[0].Email, "email snapshot is kept from the first add")
}

func TestGORMCartRepository_ListIsScopedAndOrdered(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMCartRepository(openTestDB(t))

	for _, pid := range []int64{3, 1, 2} {
		_, err := repo.Upsert(ctx, &models.CartItem{UserID: 1, ProductID: pid, Quantity: 1})
		require.NoError(t, err)
	}
	_, err := repo.Upsert(ctx, &models.CartItem{UserID: 2, ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	items, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{items[0].ProductID, items[1].ProductID, items[2].ProductID})

	empty, err := repo.ListByUser(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGORMCartRepository_UpdateQuantityAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMCartRepository(openTestDB(t))
	_, err := repo.Upsert(ctx, &models.CartItem{UserID: 1, ProductID: 7, Quantity: 2})
	require.NoError(t, err)

	changed, err := repo.UpdateQuantity(ctx, 1, 7, 9)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.UpdateQuantity(ctx, 1, 8, 9)
	require.NoError(t, err)
	assert.False(t, changed)

	items, _ := repo.ListByUser(ctx, 1)
	assert.Equal(t, 9, items[0].Quantity)

	removed, err := repo.Delete(ctx, 1, 7)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, 1, 7)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestGORMCartRepository_DeleteAll(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMCartRepository(openTestDB(t))
	_, _ = repo.Upsert(ctx, &models.CartItem{UserID: 1, ProductID: 1, Quantity: 1})
	_, _ = repo.Upsert(ctx, &models.CartItem{UserID: 1, ProductID: 2, Quantity: 1})
	_, _ = repo.Upsert(ctx, &models.CartItem{UserID: 2, ProductID: 1, Quantity: 1})

	cleared, err := repo.DeleteAll(ctx, 1)
	require.NoError(t, err)
	assert.True(t, cleared)

	cleared, err = repo.DeleteAll(ctx, 1)
	require.NoError(t, err)
	assert.False(t, cleared)

	other, _ := repo.ListByUser(ctx, 2)
	assert.Len(t, other, 1)
}

func TestGORMCartRepository_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMCartRepository(openTestDB(t))
	_, err := repo.Upsert(ctx, &models.CartItem{UserID: 1, ProductID: 1, Quantity: 4})
	require.NoError(t, err)

	err = repo.ReplaceAll(ctx, 1, []models.CartItem{
		{ProductID: 10, Title: "A", Quantity: 1},
		{ProductID: 11, Title: "B", Quantity: 2},
	})
	require.NoError(t, err)

	items, _ := repo.ListByUser(ctx, 1)
	require.Len(t, items, 2)
	assert.Equal(t, int64(10), items[0].ProductID)
	assert.Equal(t, int64(11), items[1].ProductID)
}

func TestGORMCartRepository_ReplaceAllRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMCartRepository(openTestDB(t))
	_, err := repo.Upsert(ctx, &models.CartItem{UserID: 1, ProductID: 1, Title: "keep", Quantity: 4})
	require.NoError(t, err)

	t.Run("item without product id", func(t *testing.T) {
		err := repo.ReplaceAll(ctx, 1, []models.CartItem{
			{ProductID: 10, Quantity: 1},
			{Quantity: 1},
		})
		assert.ErrorIs(t, err, repositories.ErrInvalidItem)
	})

	t.Run("failing insert", func(t *testing.T) {
		err := repo.ReplaceAll(ctx, 1, []models.CartItem{
			{ProductID: 10, Quantity: 1},
			{ProductID: 10, Quantity: 1},
		})
		assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
	})

	items, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, "keep", items[0].Title)
	assert.Equal(t, 4, items[0].Quantity)
}
