package memory

import (
	"context"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
)

type animalRepo struct {
	s *Store
}

func (r *animalRepo) Create(_ context.Context, a *model.Animal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tutors[a.TutorID]; !ok {
		return apperrors.Conflict(repository.MsgStillReferenced, nil)
	}
	a.ID = r.s.nextID("animals")
	r.s.animals[a.ID] = *a
	return nil
}

func (r *animalRepo) Get(_ context.Context, id int64) (*model.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.animals[id]
	if !ok {
		return nil, apperrors.NotFound("animal", nil)
	}
	return &a, nil
}

func (r *animalRepo) List(_ context.Context) ([]*model.Animal, error) {
	return r.filter(func(model.Animal) bool { return true }), nil
}

func (r *animalRepo) ListByTutor(_ context.Context, tutorID int64) ([]*model.Animal, error) {
	return r.filter(func(a model.Animal) bool { return a.TutorID == tutorID }), nil
}

func (r *animalRepo) filter(keep func(model.Animal) bool) []*model.Animal {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	animals := make([]*model.Animal, 0)
	for _, id := range sortedKeys(r.s.animals) {
		a := r.s.animals[id]
		if keep(a) {
			animals = append(animals, &a)
		}
	}
	return animals
}

func (r *animalRepo) Update(_ context.Context, a *model.Animal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.animals[a.ID]; !ok {
		return apperrors.NotFound("animal", nil)
	}
	if _, ok := r.s.tutors[a.TutorID]; !ok {
		return apperrors.Conflict(repository.MsgStillReferenced, nil)
	}
	r.s.animals[a.ID] = *a
	return nil
}

func (r *animalRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.animals[id]; !ok {
		return apperrors.NotFound("animal", nil)
	}
	for _, apt := range r.s.appointments {
		if apt.AnimalID == id {
			return apperrors.Conflict(repository.MsgAnimalHasAppointment, nil)
		}
	}
	delete(r.s.animals, id)
	return nil
}
