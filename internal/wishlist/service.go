package wishlist

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/RyftEbikes/ryft-site-sub000/pkg/db"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/db/models"
	pkgerrors "github.com/RyftEbikes/ryft-site-sub000/pkg/errors"
)

// Service owns the saved-products list.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, dto AddItemDTO) (*ItemDTO, error)
	Remove(ctx context.Context, userID uuid.UUID, productID string) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wishlist repo is required")
	}
	return &service{repo: repo}, nil
}

// Add saves the product. Adding a product twice is a conflict.
func (s *service) Add(ctx context.Context, userID uuid.UUID, dto AddItemDTO) (*ItemDTO, error) {
	productID := strings.TrimSpace(dto.ProductID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(dto.ProductName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if dto.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	item := &models.WishlistItem{
		UserID:      userID,
		ProductID:   productID,
		ProductName: strings.TrimSpace(dto.ProductName),
		ImageURL:    dto.ImageURL,
		PriceCents:  dto.PriceCents,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "wishlist_items_user_product_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already on wishlist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wishlist item")
	}
	return FromModel(item), nil
}

// Remove deletes the saved product. Removing an absent product is a no-op.
func (s *service) Remove(ctx context.Context, userID uuid.UUID, productID string) error {
	if _, err := s.repo.Delete(ctx, userID, strings.TrimSpace(productID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete wishlist item")
	}
	return nil
}

// ListByUser returns the user's saved products, oldest first.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	return FromModels(list), nil
}
