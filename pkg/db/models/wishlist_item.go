package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WishlistItem links a user to a saved product. ProductID is the catalog
// slug, not a uuid; the (user, product) pair is unique.
type WishlistItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:wishlist_items_user_id_idx;uniqueIndex:wishlist_items_user_product_key" json:"userId"`
	ProductID   string    `gorm:"column:product_id;not null;uniqueIndex:wishlist_items_user_product_key" json:"productId"`
	ProductName string    `gorm:"column:product_name;not null" json:"productName"`
	ImageURL    *string   `gorm:"column:image_url" json:"image,omitempty"`
	PriceCents  int64     `gorm:"column:price_cents;not null" json:"priceCents"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"addedAt"`
}

// BeforeCreate assigns the record id; sqlite has no uuid generator.
func (w *WishlistItem) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
