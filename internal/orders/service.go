package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RyftEbikes/ryft-site-sub000/internal/users"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/config"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/db"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/db/models"
	dbtypes "github.com/RyftEbikes/ryft-site-sub000/pkg/db/types"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/enums"
	pkgerrors "github.com/RyftEbikes/ryft-site-sub000/pkg/errors"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/security"
)

const tempPasswordLength = 24

// orderDateLayout is the label shown on the order history page.
const orderDateLayout = "January 2, 2006"

// Service owns order placement and lifecycle transitions.
type Service interface {
	Create(ctx context.Context, dto CreateOrderDTO) (*OrderDTO, error)
	CreatePreorder(ctx context.Context, dto CreatePreorderDTO) (*OrderDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
}

type service struct {
	db     *db.Client
	orders *Repository
	users  *users.Repository
	pwCfg  config.PasswordConfig
}

// NewService builds an orders service with the required dependencies.
func NewService(client *db.Client, ordersRepo *Repository, usersRepo *users.Repository, pwCfg config.PasswordConfig) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db client is required")
	}
	if ordersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo is required")
	}
	if usersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repo is required")
	}
	return &service{db: client, orders: ordersRepo, users: usersRepo, pwCfg: pwCfg}, nil
}

// Create inserts the order and bumps the owner's denormalized counters in
// one transaction. A vanished owner skips the counter update but keeps
// the order, matching the storefront's orphan-tolerant history view.
func (s *service) Create(ctx context.Context, dto CreateOrderDTO) (*OrderDTO, error) {
	order, err := s.buildOrder(dto)
	if err != nil {
		return nil, err
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if _, err := s.users.WithTx(tx).IncrementOrderStats(ctx, order.UserID, order.TotalCents); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order stats")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

// CreatePreorder places a preorder for an email address, creating the
// account with a throwaway password when none exists yet.
func (s *service) CreatePreorder(ctx context.Context, dto CreatePreorderDTO) (*OrderDTO, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	var order *models.Order
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		usersRepo := s.users.WithTx(tx)

		owner, err := usersRepo.FindByEmail(ctx, email)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
			}
			owner, err = s.createImplicitUser(ctx, usersRepo, email, dto)
			if err != nil {
				return err
			}
		}

		order, err = s.buildOrder(CreateOrderDTO{
			UserID:     owner.ID,
			Items:      dto.Items,
			TotalCents: dto.TotalCents,
			Type:       enums.OrderTypePreorder,
		})
		if err != nil {
			return err
		}
		if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if _, err := usersRepo.IncrementOrderStats(ctx, owner.ID, order.TotalCents); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order stats")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

// ListByUser returns the user's order history, oldest first.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	list, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return FromModels(list), nil
}

// UpdateStatus transitions the order; an unknown id is a hard not-found.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").WithDetails(status.String())
	}

	affected, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return FromModel(order), nil
}

func (s *service) buildOrder(dto CreateOrderDTO) (*models.Order, error) {
	if len(dto.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	if dto.TotalCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total cannot be negative")
	}
	if !dto.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order type").WithDetails(dto.Type.String())
	}

	status := dto.Status
	if status == "" {
		status = enums.OrderStatusProcessing
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").WithDetails(status.String())
	}

	date := dto.Date
	if date == "" {
		date = time.Now().UTC().Format(orderDateLayout)
	}

	return &models.Order{
		UserID:     dto.UserID,
		OrderDate:  date,
		Status:     status,
		Items:      dbtypes.StringList(dto.Items),
		TotalCents: dto.TotalCents,
		Type:       dto.Type,
	}, nil
}

func (s *service) createImplicitUser(ctx context.Context, repo *users.Repository, email string, dto CreatePreorderDTO) (*models.User, error) {
	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate password")
	}
	hash, err := security.HashPassword(tempPassword, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	owner, err := repo.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(dto.Name),
		Phone:        dto.Phone,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "users_email_key") {
			// raced with a concurrent signup for the same address
			return repo.FindByEmail(ctx, email)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return owner, nil
}
