package repositories_test

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMContactRepository_Create(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMContactRepository(db)

	first := &models.Contact{Name: "Ann", Email: "ann@x.com", Message: "hi"}
	second := &models.Contact{Name: "Bob", Email: "bob@x.com", Message: "yo"}
	require.NoError(t, repo.Create(context.Background(), first))
	require.NoError(t, repo.Create(context.Background(), second))

	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	var count int64
	require.NoError(t, db.Model(&models.Contact{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
