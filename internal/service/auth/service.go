package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	"github.com/jwalitptl/vetclinic-api/internal/service/audit"
	"github.com/jwalitptl/vetclinic-api/pkg/auth"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
	"github.com/jwalitptl/vetclinic-api/pkg/security"
)

const (
	msgInvalidCredentials = "incorrect email or password"
	msgInactive           = "user is inactive"
	msgInvalidToken       = "could not validate credentials"
	tokenType             = "bearer"
)

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
	auditor  *audit.Service
	users    *cache.Cache
}

// NewService builds the auth service. Users resolved from tokens are cached
// for cacheTTL; zero disables the cache.
func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher, auditor *audit.Service, cacheTTL time.Duration) *Service {
	s := &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
		auditor:  auditor,
	}
	if cacheTTL > 0 {
		s.users = cache.New(cacheTTL, 2*cacheTTL)
	}
	return s
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(msgInvalidCredentials, nil)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return nil, apperrors.Unauthorized(msgInvalidCredentials, nil)
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized(msgInactive, nil)
	}

	token, expiresAt, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.auditor.Log(ctx, user.ID, "login", "auth", user.ID, nil)

	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate resolves a bearer token to the actor behind it. The user must
// still exist and be active; role comes from the stored user, not the token.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Actor, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(msgInvalidToken, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, apperrors.Unauthorized(msgInvalidToken, err)
	}

	user, err := s.lookup(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(msgInvalidToken, err)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized(msgInactive, nil)
	}
	return user.Actor(), nil
}

func (s *Service) lookup(ctx context.Context, id int64) (*model.User, error) {
	key := strconv.FormatInt(id, 10)
	if s.users != nil {
		if cached, ok := s.users.Get(key); ok {
			return cached.(*model.User), nil
		}
	}

	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if s.users != nil {
		s.users.SetDefault(key, user)
	}
	return user, nil
}

// Me returns the stored user behind actor.
func (s *Service) Me(ctx context.Context, actor *model.Actor) (*model.User, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized("authentication required", nil)
	}
	user, err := s.userRepo.Get(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Forget drops the cached user so the next request reloads it.
func (s *Service) Forget(userID int64) {
	if s.users != nil {
		s.users.Delete(strconv.FormatInt(userID, 10))
	}
}
