package datavault

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyftEbikes/ryft-site-sub000/internal/session"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/config"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/db"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/db/models"
	dbtypes "github.com/RyftEbikes/ryft-site-sub000/pkg/db/types"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/enums"
	pkgerrors "github.com/RyftEbikes/ryft-site-sub000/pkg/errors"
)

func setupVault(t *testing.T) (Service, *session.Repository, *db.Client) {
	t.Helper()

	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DBDriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(
		&models.User{}, &models.Order{}, &models.WishlistItem{}, &models.SessionSlot{},
	))

	sessions := session.NewRepository(client.DB())
	svc, err := NewService(client, sessions)
	require.NoError(t, err)
	return svc, sessions, client
}

func seedVaultUser(t *testing.T, client *db.Client, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=8,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA",
		Name:         "Jordan Vale",
		MemberSince:  "March 2025",
		Role:         enums.RoleUser,
	}
	require.NoError(t, client.DB().Create(user).Error)
	return user
}

func seedVaultOrder(t *testing.T, client *db.Client, userID uuid.UUID) *models.Order {
	t.Helper()

	order := &models.Order{
		UserID:     userID,
		OrderDate:  "March 1, 2025",
		Status:     enums.OrderStatusProcessing,
		Items:      dbtypes.StringList{"Ryft One"},
		TotalCents: 199900,
		Type:       enums.OrderTypePurchase,
	}
	require.NoError(t, client.DB().Create(order).Error)
	return order
}

func TestExportClearImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, sessions, client := setupVault(t)

	user := seedVaultUser(t, client, "rider@example.com")
	order := seedVaultOrder(t, client, user.ID)
	item := &models.WishlistItem{
		UserID:      user.ID,
		ProductID:   "spare-battery",
		ProductName: "Spare Battery",
		PriceCents:  29900,
	}
	require.NoError(t, client.DB().Create(item).Error)
	require.NoError(t, sessions.Set(ctx, user.ID))

	snapshot, err := svc.Export(ctx)
	require.NoError(t, err)
	require.Len(t, *snapshot.Users, 1)
	require.Len(t, *snapshot.Orders, 1)
	require.Len(t, *snapshot.Wishlist, 1)
	assert.False(t, snapshot.ExportDate.IsZero())

	require.NoError(t, svc.Clear(ctx))

	var userCount int64
	require.NoError(t, client.DB().Model(&models.User{}).Count(&userCount).Error)
	assert.Zero(t, userCount)

	// clear also logs everyone out
	current, err := sessions.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	raw, err := json.Marshal(snapshot)
	require.NoError(t, err)

	summary, err := svc.Import(ctx, raw)
	require.NoError(t, err)
	require.NotNil(t, summary.Users)
	assert.Equal(t, 1, *summary.Users)

	var restored models.User
	require.NoError(t, client.DB().First(&restored, "id = ?", user.ID).Error)
	assert.Equal(t, user.Email, restored.Email)
	assert.Equal(t, user.PasswordHash, restored.PasswordHash)

	var restoredOrder models.Order
	require.NoError(t, client.DB().First(&restoredOrder, "id = ?", order.ID).Error)
	assert.Equal(t, order.Items, restoredOrder.Items)
	assert.Equal(t, order.TotalCents, restoredOrder.TotalCents)
}

func TestImportRejectsMalformedPayload(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupVault(t)

	_, err := svc.Import(ctx, []byte("{not json"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestImportRejectsInvalidRecordsAtomically(t *testing.T) {
	ctx := context.Background()
	svc, _, client := setupVault(t)
	existing := seedVaultUser(t, client, "rider@example.com")

	bad := Snapshot{
		Users: &[]models.User{
			{
				ID:           uuid.New(),
				Email:        "new@example.com",
				PasswordHash: "hash",
				Name:         "New Rider",
				MemberSince:  "March 2025",
				Role:         enums.RoleUser,
			},
			{
				ID:           uuid.New(),
				Email:        "new@example.com", // duplicate
				PasswordHash: "hash",
				Name:         "Other Rider",
				MemberSince:  "March 2025",
				Role:         enums.RoleUser,
			},
		},
	}
	raw, err := json.Marshal(bad)
	require.NoError(t, err)

	_, err = svc.Import(ctx, raw)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	// the stored collection is untouched on failure
	var count int64
	require.NoError(t, client.DB().Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	var still models.User
	require.NoError(t, client.DB().First(&still, "id = ?", existing.ID).Error)
}

func TestImportRejectsPaddedWishlistDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _, client := setupVault(t)
	user := seedVaultUser(t, client, "rider@example.com")

	// padding around the product id must not hide the duplicate pair
	bad := Snapshot{
		Wishlist: &[]models.WishlistItem{
			{
				ID:          uuid.New(),
				UserID:      user.ID,
				ProductID:   "ryft-one",
				ProductName: "Ryft One",
				PriceCents:  199900,
			},
			{
				ID:          uuid.New(),
				UserID:      user.ID,
				ProductID:   "  ryft-one ",
				ProductName: "Ryft One",
				PriceCents:  199900,
			},
		},
	}
	raw, err := json.Marshal(bad)
	require.NoError(t, err)

	_, err = svc.Import(ctx, raw)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestImportRejectsUnknownOwnerReference(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupVault(t)

	bad := Snapshot{
		Orders: &[]models.Order{
			{
				ID:         uuid.New(),
				UserID:     uuid.New(), // nobody in the store
				OrderDate:  "March 1, 2025",
				Status:     enums.OrderStatusProcessing,
				Items:      dbtypes.StringList{"Ryft One"},
				TotalCents: 199900,
				Type:       enums.OrderTypePurchase,
			},
		},
	}
	raw, err := json.Marshal(bad)
	require.NoError(t, err)

	_, err = svc.Import(ctx, raw)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestImportLeavesAbsentCollectionsUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _, client := setupVault(t)
	user := seedVaultUser(t, client, "rider@example.com")
	order := seedVaultOrder(t, client, user.ID)

	replacement := Snapshot{
		Orders: &[]models.Order{
			{
				ID:         uuid.New(),
				UserID:     user.ID,
				OrderDate:  "April 1, 2025",
				Status:     enums.OrderStatusShipped,
				Items:      dbtypes.StringList{"Spare Battery"},
				TotalCents: 29900,
				Type:       enums.OrderTypePurchase,
			},
		},
	}
	raw, err := json.Marshal(replacement)
	require.NoError(t, err)

	summary, err := svc.Import(ctx, raw)
	require.NoError(t, err)
	assert.Nil(t, summary.Users)
	require.NotNil(t, summary.Orders)
	assert.Equal(t, 1, *summary.Orders)

	// users survived, the order collection was replaced wholesale
	var still models.User
	require.NoError(t, client.DB().First(&still, "id = ?", user.ID).Error)

	var orders []models.Order
	require.NoError(t, client.DB().Find(&orders).Error)
	require.Len(t, orders, 1)
	assert.NotEqual(t, order.ID, orders[0].ID)
	assert.Equal(t, enums.OrderStatusShipped, orders[0].Status)
}

func TestImportEmptyCollectionClearsIt(t *testing.T) {
	ctx := context.Background()
	svc, _, client := setupVault(t)
	user := seedVaultUser(t, client, "rider@example.com")
	seedVaultOrder(t, client, user.ID)

	empty := []models.Order{}
	raw, err := json.Marshal(Snapshot{Orders: &empty})
	require.NoError(t, err)

	summary, err := svc.Import(ctx, raw)
	require.NoError(t, err)
	require.NotNil(t, summary.Orders)
	assert.Zero(t, *summary.Orders)

	var count int64
	require.NoError(t, client.DB().Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}
