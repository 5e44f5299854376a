package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/RyftEbikes/ryft-site-sub000/internal/session"
	"github.com/RyftEbikes/ryft-site-sub000/internal/users"
	pkgauth "github.com/RyftEbikes/ryft-site-sub000/pkg/auth"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/config"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/db"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/db/models"
	pkgerrors "github.com/RyftEbikes/ryft-site-sub000/pkg/errors"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/security"
)

// Service owns registration, credential checks and the session pointer.
type Service interface {
	Register(ctx context.Context, dto RegisterDTO) (*SessionDTO, error)
	Login(ctx context.Context, dto LoginDTO) (*SessionDTO, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*users.UserDTO, error)
}

type service struct {
	db       *db.Client
	users    *users.Repository
	sessions *session.Repository
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
}

// NewService builds an auth service with the required dependencies.
func NewService(client *db.Client, usersRepo *users.Repository, sessions *session.Repository, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db client is required")
	}
	if usersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repo is required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session repo is required")
	}
	return &service{
		db:       client,
		users:    usersRepo,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
	}, nil
}

// Register creates the account, logs the new user in and issues a token.
// A reused email surfaces as a conflict regardless of casing.
func (s *service) Register(ctx context.Context, dto RegisterDTO) (*SessionDTO, error) {
	hash, err := security.HashPassword(dto.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	create := users.CreateUserDTO{
		Email:        normalizeEmail(dto.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(dto.Name),
		Phone:        dto.Phone,
		Address:      dto.Address,
	}

	var created *SessionDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := s.users.WithTx(tx).Create(ctx, create)
		if err != nil {
			if db.IsUniqueViolation(err, "users_email_key") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		if err := s.sessions.WithTx(tx).Set(ctx, user.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set session")
		}

		token, err := s.mintToken(user)
		if err != nil {
			return err
		}
		created = &SessionDTO{Token: token, User: users.FromModel(user)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login distinguishes an unknown account from a bad password. Both
// outcomes leave the session slot untouched.
func (s *service) Login(ctx context.Context, dto LoginDTO) (*SessionDTO, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(dto.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no account for that email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(dto.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if err := s.sessions.Set(ctx, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set session")
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, err
	}
	return &SessionDTO{Token: token, User: users.FromModel(user)}, nil
}

// Logout clears the session slot. Logging out while logged out is a no-op.
func (s *service) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}
	return nil
}

// CurrentUser resolves the session slot to a full record. A slot pointing
// at a deleted user reads as logged out and is cleared on the way.
func (s *service) CurrentUser(ctx context.Context) (*users.UserDTO, error) {
	userID, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read session")
	}
	if userID == nil {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, *userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.sessions.Clear(ctx)
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return users.FromModel(user), nil
}

func (s *service) mintToken(user *models.User) (string, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
