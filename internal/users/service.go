package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/retail-admin-backend/pkg/db"
	"github.com/angelmondragon/retail-admin-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
	"github.com/angelmondragon/retail-admin-backend/pkg/security"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, p pagination.Params) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// Service exposes operator account management.
type Service interface {
	List(ctx context.Context, p pagination.Params) ([]UserDTO, error)
	Get(ctx context.Context, id uint) (*UserDTO, error)
	GetByUsername(ctx context.Context, username string) (*UserDTO, error)
	Create(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	Update(ctx context.Context, id uint, input UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, id uint) error
	Authenticate(ctx context.Context, username, password string) (*UserDTO, error)
}

type service struct {
	repo   userRepository
	hasher passwordHasher
	now    func() time.Time
}

// NewService builds the user service. A nil hasher uses the default PBKDF2 settings.
func NewService(repo userRepository, hasher passwordHasher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if hasher == nil {
		hasher = security.NewPasswordHasher(security.DefaultIterations)
	}
	return &service{repo: repo, hasher: hasher, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uint) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(user), nil
}

func (s *service) GetByUsername(ctx context.Context, username string) (*UserDTO, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(user), nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	username := strings.TrimSpace(input.Username)
	if len(username) < 3 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username must be at least 3 characters")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}
	user := input.toModel(hash)
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("username '%s' already exists", username))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLoadError(err)
	}
	input.apply(user)
	if password, ok := input.newPassword(); ok {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
		}
		user.HashedPassword = hash
	}
	user.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapLoadError(err)
	}
	return nil
}

// Authenticate returns the user when the credentials match an active account.
func (s *service) Authenticate(ctx context.Context, username, password string) (*UserDTO, error) {
	invalid := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, invalid
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, invalid
	}
	ok, err := s.hasher.Verify(password, user.HashedPassword)
	if err != nil || !ok {
		return nil, invalid
	}
	return FromModel(user), nil
}

func mapLoadError(err error) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
}
