package datavault

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RyftEbikes/ryft-site-sub000/internal/session"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/db"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/db/models"
	pkgerrors "github.com/RyftEbikes/ryft-site-sub000/pkg/errors"
)

// Service owns the administrative export, import and clear operations.
type Service interface {
	Export(ctx context.Context) (*Snapshot, error)
	Import(ctx context.Context, raw []byte) (*ImportSummary, error)
	Clear(ctx context.Context) error
}

// ImportSummary reports how many records each collection received.
// A nil count means the collection was absent from the snapshot.
type ImportSummary struct {
	Users    *int `json:"users,omitempty"`
	Orders   *int `json:"orders,omitempty"`
	Wishlist *int `json:"wishlist,omitempty"`
}

type service struct {
	db       *db.Client
	sessions *session.Repository
}

// NewService builds a datavault service with the required dependencies.
func NewService(client *db.Client, sessions *session.Repository) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db client is required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session repo is required")
	}
	return &service{db: client, sessions: sessions}, nil
}

// Export reads every collection into one snapshot. Password hashes are
// included; the snapshot is a full backup, not a public document.
func (s *service) Export(ctx context.Context) (*Snapshot, error) {
	conn := s.db.DB().WithContext(ctx)

	var (
		users    []models.User
		orders   []models.Order
		wishlist []models.WishlistItem
	)
	if err := conn.Order("created_at ASC").Order("id ASC").Find(&users).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export users")
	}
	if err := conn.Order("created_at ASC").Order("id ASC").Find(&orders).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export orders")
	}
	if err := conn.Order("created_at ASC").Order("id ASC").Find(&wishlist).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export wishlist")
	}

	return &Snapshot{
		Users:      &users,
		Orders:     &orders,
		Wishlist:   &wishlist,
		ExportDate: time.Now().UTC(),
	}, nil
}

// Import validates the full snapshot up front and then replaces the
// present collections in one transaction. Absent collections are left
// untouched. Nothing is written when any record fails validation.
func (s *service) Import(ctx context.Context, raw []byte) (*ImportSummary, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid snapshot format")
	}

	if problems := validateSnapshot(ctx, s.db.DB(), &snapshot); len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot failed validation").WithDetails(problems)
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if snapshot.Users != nil {
			if err := replaceCollection(ctx, tx, &models.User{}, *snapshot.Users); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import users")
			}
		}
		if snapshot.Orders != nil {
			if err := replaceCollection(ctx, tx, &models.Order{}, *snapshot.Orders); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import orders")
			}
		}
		if snapshot.Wishlist != nil {
			if err := replaceCollection(ctx, tx, &models.WishlistItem{}, *snapshot.Wishlist); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import wishlist")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	if snapshot.Users != nil {
		summary.Users = countOf(len(*snapshot.Users))
	}
	if snapshot.Orders != nil {
		summary.Orders = countOf(len(*snapshot.Orders))
	}
	if snapshot.Wishlist != nil {
		summary.Wishlist = countOf(len(*snapshot.Wishlist))
	}
	return summary, nil
}

// Clear drops every collection and the session pointer in one transaction.
func (s *service) Clear(ctx context.Context) error {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Where("1 = 1").Delete(&models.WishlistItem{}).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Where("1 = 1").Delete(&models.Order{}).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Where("1 = 1").Delete(&models.User{}).Error; err != nil {
			return err
		}
		return s.sessions.WithTx(tx).Clear(ctx)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear all data")
	}
	return nil
}

func replaceCollection[T any](ctx context.Context, tx *gorm.DB, model *T, records []T) error {
	if err := tx.WithContext(ctx).Where("1 = 1").Delete(model).Error; err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return tx.WithContext(ctx).CreateInBatches(records, 100).Error
}

// validateSnapshot checks every record before anything is written. Order
// and wishlist owners must exist in the user set the import will end up
// with: the snapshot's users when present, the stored ones otherwise.
func validateSnapshot(ctx context.Context, conn *gorm.DB, snapshot *Snapshot) []string {
	var problems []string

	knownUsers := map[uuid.UUID]bool{}
	if snapshot.Users != nil {
		seenEmails := map[string]bool{}
		for i, user := range *snapshot.Users {
			label := fmt.Sprintf("users[%d]", i)
			if user.ID == uuid.Nil {
				problems = append(problems, label+": missing id")
			}
			email := strings.ToLower(strings.TrimSpace(user.Email))
			switch {
			case email == "":
				problems = append(problems, label+": missing email")
			case seenEmails[email]:
				problems = append(problems, label+": duplicate email "+email)
			default:
				seenEmails[email] = true
			}
			if strings.TrimSpace(user.Name) == "" {
				problems = append(problems, label+": missing name")
			}
			if user.PasswordHash == "" {
				problems = append(problems, label+": missing password hash")
			}
			if !user.Role.IsValid() {
				problems = append(problems, fmt.Sprintf("%s: unknown role %q", label, user.Role))
			}
			if user.TotalOrders < 0 || user.TotalSpentCents < 0 {
				problems = append(problems, label+": negative order totals")
			}
			knownUsers[user.ID] = true
		}
	} else if snapshot.Orders != nil || snapshot.Wishlist != nil {
		var ids []uuid.UUID
		if err := conn.WithContext(ctx).Model(&models.User{}).Pluck("id", &ids).Error; err == nil {
			for _, id := range ids {
				knownUsers[id] = true
			}
		}
	}

	if snapshot.Orders != nil {
		for i, order := range *snapshot.Orders {
			label := fmt.Sprintf("orders[%d]", i)
			if order.ID == uuid.Nil {
				problems = append(problems, label+": missing id")
			}
			if !knownUsers[order.UserID] {
				problems = append(problems, fmt.Sprintf("%s: unknown user %s", label, order.UserID))
			}
			if !order.Status.IsValid() {
				problems = append(problems, fmt.Sprintf("%s: unknown status %q", label, order.Status))
			}
			if !order.Type.IsValid() {
				problems = append(problems, fmt.Sprintf("%s: unknown type %q", label, order.Type))
			}
			if len(order.Items) == 0 {
				problems = append(problems, label+": no items")
			}
			if order.TotalCents < 0 {
				problems = append(problems, label+": negative total")
			}
		}
	}

	if snapshot.Wishlist != nil {
		seenPairs := map[string]bool{}
		for i, item := range *snapshot.Wishlist {
			label := fmt.Sprintf("wishlist[%d]", i)
			if item.ID == uuid.Nil {
				problems = append(problems, label+": missing id")
			}
			if !knownUsers[item.UserID] {
				problems = append(problems, fmt.Sprintf("%s: unknown user %s", label, item.UserID))
			}
			if strings.TrimSpace(item.ProductID) == "" {
				problems = append(problems, label+": missing product id")
			}
			if strings.TrimSpace(item.ProductName) == "" {
				problems = append(problems, label+": missing product name")
			}
			if item.PriceCents < 0 {
				problems = append(problems, label+": negative price")
			}
			pair := item.UserID.String() + "/" + strings.TrimSpace(item.ProductID)
			if seenPairs[pair] {
				problems = append(problems, label+": duplicate product "+item.ProductID)
			}
			seenPairs[pair] = true
		}
	}

	return problems
}

func countOf(n int) *int {
	return &n
}
