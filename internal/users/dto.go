package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/RyftEbikes/ryft-site-sub000/pkg/db/models"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/enums"
)

// UserDTO is the transport shape that omits the credential hash.
type UserDTO struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Phone           *string    `json:"phone,omitempty"`
	Address         *string    `json:"address,omitempty"`
	AvatarURL       *string    `json:"avatar,omitempty"`
	MemberSince     string     `json:"member_since"`
	Role            enums.Role `json:"role"`
	TotalOrders     int        `json:"total_orders"`
	TotalSpentCents int64      `json:"total_spent_cents"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	Address      *string
	AvatarURL    *string
	MemberSince  string
	Role         enums.Role
}

// UpdateUserDTO carries the partial profile fields merged over the record.
// Nil pointers leave the stored value untouched.
type UpdateUserDTO struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	AvatarURL *string `json:"avatar,omitempty"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Phone:           u.Phone,
		Address:         u.Address,
		AvatarURL:       u.AvatarURL,
		MemberSince:     u.MemberSince,
		Role:            u.Role,
		TotalOrders:     u.TotalOrders,
		TotalSpentCents: u.TotalSpentCents,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleUser
	}
	memberSince := c.MemberSince
	if memberSince == "" {
		memberSince = time.Now().UTC().Format("January 2006")
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Name:         c.Name,
		Phone:        c.Phone,
		Address:      c.Address,
		AvatarURL:    c.AvatarURL,
		MemberSince:  memberSince,
		Role:         role,
	}
}
