package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/vetclinic-api/internal/authz"
	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	"github.com/jwalitptl/vetclinic-api/internal/service/audit"
	"github.com/jwalitptl/vetclinic-api/pkg/clock"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
	"github.com/jwalitptl/vetclinic-api/pkg/security"
)

const (
	msgAdminOnly      = "Only Admins are allowed for this method."
	msgRegisterDenied = "Not allowed to create users"
	msgNotSelf        = "You can only change your own account"
	entityUser        = "user"
)

// Invalidator drops cached state about a user after it changes.
type Invalidator interface {
	Forget(userID int64)
}

type Service struct {
	repo        repository.UserRepository
	hasher      security.PasswordHasher
	invalidator Invalidator
	auditor     *audit.Service
	clock       clock.Clock
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, invalidator Invalidator, auditor *audit.Service, clk clock.Clock) *Service {
	return &Service{
		repo:        repo,
		hasher:      hasher,
		invalidator: invalidator,
		auditor:     auditor,
		clock:       clk,
	}
}

func (s *Service) hash(password string) (string, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return "", apperrors.BadRequest(fmt.Sprintf("password must have at least %d characters", security.MinPasswordLen), err)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashed, nil
}

// RegisterUser creates a staff account. Only admins may register users.
func (s *Service) RegisterUser(ctx context.Context, req *model.CreateUserRequest, actor *model.Actor) (*model.User, error) {
	if err := authz.Require(actor, msgRegisterDenied, model.RoleAdmin); err != nil {
		return nil, err
	}
	u, err := s.create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.auditor.Log(ctx, actor.ID, "create", entityUser, u.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"role": u.Role},
	})
	return u, nil
}

func (s *Service) create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown role %q", req.Role), nil)
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// EnsureAdmin creates the bootstrap admin unless a user with that email
// already exists.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (*model.User, bool, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up admin: %w", err)
	}

	u, err := s.create(ctx, &model.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		return nil, false, err
	}
	s.auditor.Log(ctx, 0, "bootstrap", entityUser, u.ID, nil)
	return u, true, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser merges the fields present in req. Admins may edit anyone and
// change roles; other users may only edit their own name, email and password.
func (s *Service) UpdateUser(ctx context.Context, id int64, req *model.UpdateUserRequest, actor *model.Actor) (*model.User, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin {
		if err := authz.RequireSelf(actor, id, msgNotSelf); err != nil {
			return nil, err
		}
		if req.Role != nil {
			return nil, apperrors.Forbidden(msgAdminOnly)
		}
	}

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Password != nil {
		hashed, err := s.hash(*req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hashed
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, apperrors.BadRequest(fmt.Sprintf("unknown role %q", *req.Role), nil)
		}
		u.Role = *req.Role
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.forget(u.ID)

	s.auditor.Log(ctx, actor.ID, "update", entityUser, u.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"role_changed": req.Role != nil, "password_changed": req.Password != nil},
	})
	return u, nil
}

// SetActive enables or disables an account. Admin only.
func (s *Service) SetActive(ctx context.Context, id int64, active bool, actor *model.Actor) (*model.User, error) {
	if err := authz.Require(actor, msgAdminOnly, model.RoleAdmin); err != nil {
		return nil, err
	}

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u.IsActive = active
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.forget(u.ID)

	s.auditor.Log(ctx, actor.ID, "set_active", entityUser, u.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"is_active": active},
	})
	return u, nil
}

// DeleteUser removes an account. Admin only; users still referenced by
// appointments or medical records cannot be removed.
func (s *Service) DeleteUser(ctx context.Context, id int64, actor *model.Actor) error {
	if err := authz.Require(actor, msgAdminOnly, model.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.forget(id)

	s.auditor.Log(ctx, actor.ID, "delete", entityUser, id, nil)
	return nil
}

func (s *Service) forget(id int64) {
	if s.invalidator != nil {
		s.invalidator.Forget(id)
	}
}
