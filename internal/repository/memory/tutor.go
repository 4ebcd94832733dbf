package memory

import (
	"context"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
)

type tutorRepo struct {
	s *Store
}

func (r *tutorRepo) checkUnique(t *model.Tutor) error {
	for id, other := range r.s.tutors {
		if id == t.ID {
			continue
		}
		if other.CPF == t.CPF {
			return apperrors.Conflict(repository.MsgTutorCPFTaken, nil)
		}
		if other.Email == t.Email {
			return apperrors.Conflict(repository.MsgTutorEmailTaken, nil)
		}
	}
	return nil
}

func (r *tutorRepo) Create(_ context.Context, t *model.Tutor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUnique(t); err != nil {
		return err
	}
	t.ID = r.s.nextID("tutors")
	r.s.tutors[t.ID] = *t
	return nil
}

func (r *tutorRepo) Get(_ context.Context, id int64) (*model.Tutor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tutors[id]
	if !ok {
		return nil, apperrors.NotFound("tutor", nil)
	}
	return &t, nil
}

func (r *tutorRepo) List(_ context.Context) ([]*model.Tutor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tutors := make([]*model.Tutor, 0, len(r.s.tutors))
	for _, id := range sortedKeys(r.s.tutors) {
		t := r.s.tutors[id]
		tutors = append(tutors, &t)
	}
	return tutors, nil
}

func (r *tutorRepo) Update(_ context.Context, t *model.Tutor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tutors[t.ID]; !ok {
		return apperrors.NotFound("tutor", nil)
	}
	if err := r.checkUnique(t); err != nil {
		return err
	}
	r.s.tutors[t.ID] = *t
	return nil
}

func (r *tutorRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tutors[id]; !ok {
		return apperrors.NotFound("tutor", nil)
	}
	for _, a := range r.s.animals {
		if a.TutorID == id {
			return apperrors.Conflict(repository.MsgTutorHasAnimals, nil)
		}
	}
	delete(r.s.tutors, id)
	return nil
}
