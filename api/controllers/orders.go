package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/RyftEbikes/ryft-site-sub000/api/middleware"
	"github.com/RyftEbikes/ryft-site-sub000/api/responses"
	"github.com/RyftEbikes/ryft-site-sub000/api/validators"
	"github.com/RyftEbikes/ryft-site-sub000/internal/orders"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/enums"
	pkgerrors "github.com/RyftEbikes/ryft-site-sub000/pkg/errors"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/logger"
)

type createOrderRequest struct {
	// guest checkout fields, required only when no token is presented
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`

	Items      []string `json:"items" validate:"required,min=1,dive,required"`
	TotalCents int64    `json:"total_cents" validate:"gte=0"`
	Type       string   `json:"type,omitempty"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrdersCreate places an order. Logged-in riders order against their own
// account; anonymous visitors go through the preorder flow, which creates
// the account from the email when needed.
func OrdersCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			userID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid credentials"))
				return
			}

			orderType := enums.OrderTypePurchase
			if body.Type != "" {
				orderType, err = enums.ParseOrderType(body.Type)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type"))
					return
				}
			}

			created, err := svc.Create(r.Context(), orders.CreateOrderDTO{
				UserID:     userID,
				Items:      body.Items,
				TotalCents: body.TotalCents,
				Type:       orderType,
			})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, created)
			return
		}

		if body.Email == nil || body.Name == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "email and name are required for guest orders"))
			return
		}

		created, err := svc.CreatePreorder(r.Context(), orders.CreatePreorderDTO{
			Email:      *body.Email,
			Name:       *body.Name,
			Phone:      body.Phone,
			Items:      body.Items,
			TotalCents: body.TotalCents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OrdersUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var body updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		updated, err := svc.UpdateStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
