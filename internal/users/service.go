package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RyftEbikes/ryft-site-sub000/pkg/db"
	pkgerrors "github.com/RyftEbikes/ryft-site-sub000/pkg/errors"
)

// Service exposes profile reads and updates.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	GetByEmail(ctx context.Context, email string) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) (*UserDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a users service with the required dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repo is required")
	}
	return &service{repo: repo}, nil
}

// GetByID is a pure lookup; a missing user returns nil without an error.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

// GetByEmail is a pure lookup; a missing user returns nil without an error.
func (s *service) GetByEmail(ctx context.Context, email string) (*UserDTO, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

// Update merges the partial fields over the stored record. Changing the
// email to one another account holds is a conflict.
func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if dto.Name != nil {
		user.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Email != nil {
		user.Email = normalizeEmail(*dto.Email)
	}
	if dto.Phone != nil {
		user.Phone = dto.Phone
	}
	if dto.Address != nil {
		user.Address = dto.Address
	}
	if dto.AvatarURL != nil {
		user.AvatarURL = dto.AvatarURL
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "users_email_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
	}
	return FromModel(user), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
