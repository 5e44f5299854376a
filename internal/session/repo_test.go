package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/RyftEbikes/ryft-site-sub000/pkg/db/models"
)

func setupSessionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SessionSlot{}))
	return db
}

func TestSessionSlotLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupSessionTestDB(t))

	current, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	first := uuid.New()
	require.NoError(t, repo.Set(ctx, first))

	current, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, first, *current)

	// a second login overwrites the slot rather than adding a row
	second := uuid.New()
	require.NoError(t, repo.Set(ctx, second))

	current, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, second, *current)

	require.NoError(t, repo.Clear(ctx))
	current, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupSessionTestDB(t))

	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))
}
