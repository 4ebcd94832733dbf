package memory

import (
	"context"
	"strings"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) emailTaken(u *model.User) bool {
	for id, other := range r.s.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(u) {
		return apperrors.Conflict(repository.MsgUserEmailTaken, nil)
	}
	u.ID = r.s.nextID("users")
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) Get(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range sortedKeys(r.s.users) {
		if u := r.s.users[id]; strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *userRepo) List(_ context.Context) ([]*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*model.User, 0, len(r.s.users))
	for _, id := range sortedKeys(r.s.users) {
		u := r.s.users[id]
		users = append(users, &u)
	}
	return users, nil
}

func (r *userRepo) Update(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID]; !ok {
		return apperrors.NotFound("user", nil)
	}
	if r.emailTaken(u) {
		return apperrors.Conflict(repository.MsgUserEmailTaken, nil)
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return apperrors.NotFound("user", nil)
	}
	for _, apt := range r.s.appointments {
		if apt.VetID == id || apt.CreatedBy == id {
			return apperrors.Conflict(repository.MsgStillReferenced, nil)
		}
	}
	for _, rec := range r.s.records {
		if rec.VetID == id {
			return apperrors.Conflict(repository.MsgStillReferenced, nil)
		}
	}
	delete(r.s.users, id)
	return nil
}
