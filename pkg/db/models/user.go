package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RyftEbikes/ryft-site-sub000/pkg/enums"
)

// User is a storefront customer profile. PasswordHash holds an argon2id
// string, never the raw credential.
type User struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email           string     `gorm:"type:text;not null;uniqueIndex:users_email_key" json:"email"`
	PasswordHash    string     `gorm:"column:password_hash;not null" json:"passwordHash"`
	Name            string     `gorm:"column:name;not null" json:"name"`
	Phone           *string    `gorm:"column:phone" json:"phone,omitempty"`
	Address         *string    `gorm:"column:address" json:"address,omitempty"`
	AvatarURL       *string    `gorm:"column:avatar_url" json:"avatar,omitempty"`
	MemberSince     string     `gorm:"column:member_since;not null" json:"memberSince"`
	Role            enums.Role `gorm:"column:role;not null;default:user" json:"role"`
	TotalOrders     int        `gorm:"column:total_orders;not null;default:0" json:"totalOrders"`
	TotalSpentCents int64      `gorm:"column:total_spent_cents;not null;default:0" json:"totalSpentCents"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate assigns the record id; sqlite has no uuid generator.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
