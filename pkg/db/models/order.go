package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/RyftEbikes/ryft-site-sub000/pkg/db/types"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/enums"
)

// Order records a preorder or purchase placed by a user. Items holds the
// human-readable line descriptions shown on the order history page.
type Order struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx" json:"userId"`
	OrderDate  string             `gorm:"column:order_date;not null" json:"date"`
	Status     enums.OrderStatus  `gorm:"column:status;not null" json:"status"`
	Items      dbtypes.StringList `gorm:"column:items;type:text;not null" json:"items"`
	TotalCents int64              `gorm:"column:total_cents;not null" json:"totalCents"`
	Type       enums.OrderType    `gorm:"column:type;not null" json:"type"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// BeforeCreate assigns the record id; sqlite has no uuid generator.
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
