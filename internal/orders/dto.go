package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/RyftEbikes/ryft-site-sub000/pkg/db/models"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/enums"
)

// OrderDTO is the transport shape for an order record.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user_id"`
	Date       string            `json:"date"`
	Status     enums.OrderStatus `json:"status"`
	Items      []string          `json:"items"`
	TotalCents int64             `json:"total_cents"`
	Type       enums.OrderType   `json:"type"`
	CreatedAt  time.Time         `json:"created_at"`
}

// CreateOrderDTO carries the fields for a new order. Status and Date are
// optional; they default to processing and today's label.
type CreateOrderDTO struct {
	UserID     uuid.UUID         `json:"user_id" validate:"required"`
	Items      []string          `json:"items" validate:"required,min=1,dive,required"`
	TotalCents int64             `json:"total_cents" validate:"gte=0"`
	Type       enums.OrderType   `json:"type" validate:"required"`
	Status     enums.OrderStatus `json:"status,omitempty"`
	Date       string            `json:"date,omitempty"`
}

// CreatePreorderDTO places a preorder for a visitor who may not have an
// account yet. A missing account is created on the fly.
type CreatePreorderDTO struct {
	Email      string   `json:"email" validate:"required,email"`
	Name       string   `json:"name" validate:"required"`
	Phone      *string  `json:"phone,omitempty"`
	Items      []string `json:"items" validate:"required,min=1,dive,required"`
	TotalCents int64    `json:"total_cents" validate:"gte=0"`
}

// UpdateOrderStatusDTO moves an order through its fulfilment states.
type UpdateOrderStatusDTO struct {
	Status enums.OrderStatus `json:"status" validate:"required"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}

	return &OrderDTO{
		ID:         o.ID,
		UserID:     o.UserID,
		Date:       o.OrderDate,
		Status:     o.Status,
		Items:      o.Items,
		TotalCents: o.TotalCents,
		Type:       o.Type,
		CreatedAt:  o.CreatedAt,
	}
}

func FromModels(list []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
