package wishlist

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
	pkgerrors "github.com/RyftEbikes/ryft-site-sub000/pkg/errors"
)

func setupWishlistService(t *testing.T) Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.WishlistItem{}))

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestAddAndList(t *testing.T) {
	ctx := context.Background()
	svc := setupWishlistService(t)
	userID := uuid.New()

	first, err := svc.Add(ctx, userID, AddItemDTO{
		ProductID:   "ryft-one-matte",
		ProductName: "Ryft One (Matte Black)",
		PriceCents:  249900,
	})
	require.NoError(t, err)
	assert.Equal(t, "ryft-one-matte", first.ProductID)

	_, err = svc.Add(ctx, userID, AddItemDTO{
		ProductID:   "spare-battery",
		ProductName: "Spare Battery",
		PriceCents:  29900,
	})
	require.NoError(t, err)

	list, err := svc.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ryft-one-matte", list[0].ProductID)
	assert.Equal(t, "spare-battery", list[1].ProductID)

	other, err := svc.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAddDuplicateProduct(t *testing.T) {
	ctx := context.Background()
	svc := setupWishlistService(t)
	userID := uuid.New()

	_, err := svc.Add(ctx, userID, AddItemDTO{ProductID: "ryft-one-matte", ProductName: "Ryft One", PriceCents: 249900})
	require.NoError(t, err)

	_, err = svc.Add(ctx, userID, AddItemDTO{ProductID: "ryft-one-matte", ProductName: "Ryft One", PriceCents: 249900})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	// a different user may save the same product
	_, err = svc.Add(ctx, uuid.New(), AddItemDTO{ProductID: "ryft-one-matte", ProductName: "Ryft One", PriceCents: 249900})
	require.NoError(t, err)
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	svc := setupWishlistService(t)
	userID := uuid.New()

	_, err := svc.Add(ctx, userID, AddItemDTO{ProductID: "  ", ProductName: "Ryft One", PriceCents: 100})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Add(ctx, userID, AddItemDTO{ProductID: "ryft-one", ProductName: "", PriceCents: 100})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Add(ctx, userID, AddItemDTO{ProductID: "ryft-one", ProductName: "Ryft One", PriceCents: -1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := setupWishlistService(t)
	userID := uuid.New()

	_, err := svc.Add(ctx, userID, AddItemDTO{ProductID: "ryft-one-matte", ProductName: "Ryft One", PriceCents: 249900})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, userID, "ryft-one-matte"))
	require.NoError(t, svc.Remove(ctx, userID, "ryft-one-matte"))
	require.NoError(t, svc.Remove(ctx, userID, "never-existed"))

	list, err := svc.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
