package tutor

import (
	"context"
	"fmt"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	"github.com/jwalitptl/vetclinic-api/pkg/clock"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
)

type Service struct {
	repo    repository.TutorRepository
	animals repository.AnimalRepository
	clock   clock.Clock
}

func NewService(repo repository.TutorRepository, animals repository.AnimalRepository, clk clock.Clock) *Service {
	return &Service{repo: repo, animals: animals, clock: clk}
}

func (s *Service) CreateTutor(ctx context.Context, req *model.CreateTutorRequest) (*model.Tutor, error) {
	t := &model.Tutor{
		Name:      req.Name,
		CPF:       req.CPF,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tutor: %w", err)
	}
	return t, nil
}

func (s *Service) GetTutor(ctx context.Context, id int64) (*model.Tutor, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tutor: %w", err)
	}
	return t, nil
}

func (s *Service) ListTutors(ctx context.Context) ([]*model.Tutor, error) {
	tutors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tutors: %w", err)
	}
	return tutors, nil
}

// UpdateTutor applies only the fields present in req.
func (s *Service) UpdateTutor(ctx context.Context, id int64, req *model.UpdateTutorRequest) (*model.Tutor, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tutor: %w", err)
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.CPF != nil {
		t.CPF = *req.CPF
	}
	if req.Email != nil {
		t.Email = *req.Email
	}
	if req.Phone != nil {
		t.Phone = *req.Phone
	}
	if req.Address != nil {
		t.Address = *req.Address
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update tutor: %w", err)
	}
	return t, nil
}

// DeleteTutor refuses to remove a tutor that still owns animals.
func (s *Service) DeleteTutor(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("failed to get tutor: %w", err)
	}

	animals, err := s.animals.ListByTutor(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list tutor animals: %w", err)
	}
	if len(animals) > 0 {
		return apperrors.Conflict(repository.MsgTutorHasAnimals, nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tutor: %w", err)
	}
	return nil
}

func (s *Service) GetTutorWithAnimals(ctx context.Context, id int64) (*model.TutorWithAnimals, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tutor: %w", err)
	}

	animals, err := s.animals.ListByTutor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list tutor animals: %w", err)
	}

	out := &model.TutorWithAnimals{Tutor: *t, Animals: make([]model.Animal, 0, len(animals))}
	for _, a := range animals {
		out.Animals = append(out.Animals, *a)
	}
	return out, nil
}
