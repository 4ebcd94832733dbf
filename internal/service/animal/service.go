package animal

import (
	"context"
	"fmt"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	"github.com/jwalitptl/vetclinic-api/pkg/clock"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
)

const msgWeightNotPositive = "The animal weight must be positive."

type Service struct {
	repo   repository.AnimalRepository
	tutors repository.TutorRepository
	clock  clock.Clock
}

func NewService(repo repository.AnimalRepository, tutors repository.TutorRepository, clk clock.Clock) *Service {
	return &Service{repo: repo, tutors: tutors, clock: clk}
}

func validateWeight(w float64) error {
	if w <= 0 {
		return apperrors.BadRequest(msgWeightNotPositive, nil)
	}
	return nil
}

func (s *Service) CreateAnimal(ctx context.Context, req *model.CreateAnimalRequest) (*model.Animal, error) {
	if err := validateWeight(req.WeightKg); err != nil {
		return nil, err
	}
	if req.BirthDate.IsZero() {
		return nil, apperrors.BadRequest("birth_date is required", nil)
	}
	if _, err := s.tutors.Get(ctx, req.TutorID); err != nil {
		return nil, fmt.Errorf("failed to get tutor: %w", err)
	}

	a := &model.Animal{
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
		WeightKg:  req.WeightKg,
		TutorID:   req.TutorID,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create animal: %w", err)
	}
	return a, nil
}

func (s *Service) GetAnimal(ctx context.Context, id int64) (*model.Animal, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}
	return a, nil
}

func (s *Service) ListAnimals(ctx context.Context) ([]*model.Animal, error) {
	animals, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	return animals, nil
}

// UpdateAnimal applies only the fields present in req.
func (s *Service) UpdateAnimal(ctx context.Context, id int64, req *model.UpdateAnimalRequest) (*model.Animal, error) {
	if req.WeightKg != nil {
		if err := validateWeight(*req.WeightKg); err != nil {
			return nil, err
		}
	}

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}

	if req.TutorID != nil && *req.TutorID != a.TutorID {
		if _, err := s.tutors.Get(ctx, *req.TutorID); err != nil {
			return nil, fmt.Errorf("failed to get tutor: %w", err)
		}
		a.TutorID = *req.TutorID
	}
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Species != nil {
		a.Species = *req.Species
	}
	if req.Breed != nil {
		a.Breed = *req.Breed
	}
	if req.BirthDate != nil && !req.BirthDate.IsZero() {
		a.BirthDate = *req.BirthDate
	}
	if req.WeightKg != nil {
		a.WeightKg = *req.WeightKg
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update animal: %w", err)
	}
	return a, nil
}

// DeleteAnimal fails with a conflict while appointments still reference the animal.
func (s *Service) DeleteAnimal(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete animal: %w", err)
	}
	return nil
}
