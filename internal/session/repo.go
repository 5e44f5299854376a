package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RyftEbikes/ryft-site-sub000/pkg/db/models"
)

// Repository owns the single persisted session slot. No other package
// reads or writes the session_slots table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a session repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Set points the session slot at the given user.
func (r *Repository) Set(ctx context.Context, userID uuid.UUID) error {
	slot := models.SessionSlot{ID: models.SessionSlotID, UserID: &userID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "updated_at"}),
		}).
		Create(&slot).Error
}

// Clear empties the session slot unconditionally.
func (r *Repository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.SessionSlot{}).
		Where("id = ?", models.SessionSlotID).
		UpdateColumn("user_id", nil).Error
}

// Get returns the current user id, or nil when nobody is logged in.
func (r *Repository) Get(ctx context.Context) (*uuid.UUID, error) {
	var slot models.SessionSlot
	err := r.db.WithContext(ctx).First(&slot, "id = ?", models.SessionSlotID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return slot.UserID, nil
}
