package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionSlotID is the fixed primary key of the single session row.
const SessionSlotID = 1

// SessionSlot is the persisted "current user" pointer. It stores only the
// user id so profile updates can never leave a stale copy behind, and it
// survives restarts until logout or clear-all removes it.
type SessionSlot struct {
	ID        int        `gorm:"column:id;primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid" json:"userId,omitempty"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
