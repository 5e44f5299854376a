package datavault

import (
	"time"

	"github.com/RyftEbikes/ryft-site-sub000/pkg/db/models"
)

// Snapshot is the portable backup format. Collections are pointers so an
// import can tell an absent collection (left untouched) from an empty one
// (replaced with nothing).
type Snapshot struct {
	Users      *[]models.User         `json:"users,omitempty"`
	Orders     *[]models.Order        `json:"orders,omitempty"`
	Wishlist   *[]models.WishlistItem `json:"wishlist,omitempty"`
	ExportDate time.Time              `json:"exportDate"`
}
