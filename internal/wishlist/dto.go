package wishlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/RyftEbikes/ryft-site-sub000/pkg/db/models"
)

// ItemDTO is the transport shape for a saved product.
type ItemDTO struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	ImageURL    *string   `json:"image,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	AddedAt     time.Time `json:"added_at"`
}

// AddItemDTO carries the fields for saving a product to the wishlist.
type AddItemDTO struct {
	ProductID   string  `json:"product_id" validate:"required"`
	ProductName string  `json:"product_name" validate:"required"`
	ImageURL    *string `json:"image,omitempty"`
	PriceCents  int64   `json:"price_cents" validate:"gte=0"`
}

func FromModel(item *models.WishlistItem) *ItemDTO {
	if item == nil {
		return nil
	}

	return &ItemDTO{
		ID:          item.ID,
		UserID:      item.UserID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		ImageURL:    item.ImageURL,
		PriceCents:  item.PriceCents,
		AddedAt:     item.CreatedAt,
	}
}

func FromModels(list []models.WishlistItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
