package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
)

type animalRepository struct {
	BaseRepository
}

func NewAnimalRepository(db *sqlx.DB) repository.AnimalRepository {
	return &animalRepository{NewBaseRepository(db)}
}

const animalColumns = `id, name, species, breed, birth_date, weight_kg, tutor_id, created_at`

func (r *animalRepository) Create(ctx context.Context, a *model.Animal) error {
	query := `
		INSERT INTO animals (name, species, breed, birth_date, weight_kg, tutor_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.ext(ctx).QueryRowxContext(ctx, query,
		a.Name,
		a.Species,
		a.Breed,
		a.BirthDate,
		a.WeightKg,
		a.TutorID,
	).Scan(&a.ID, &a.CreatedAt)
	return translateError(err, "animal", "create")
}

func (r *animalRepository) Get(ctx context.Context, id int64) (*model.Animal, error) {
	var a model.Animal
	query := `SELECT ` + animalColumns + ` FROM animals WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.ext(ctx), &a, query, id); err != nil {
		return nil, translateError(err, "animal", "get")
	}
	return &a, nil
}

func (r *animalRepository) List(ctx context.Context) ([]*model.Animal, error) {
	animals := []*model.Animal{}
	query := `SELECT ` + animalColumns + ` FROM animals ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &animals, query); err != nil {
		return nil, translateError(err, "animals", "list")
	}
	return animals, nil
}

func (r *animalRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Animal, error) {
	animals := []*model.Animal{}
	query := `SELECT ` + animalColumns + ` FROM animals WHERE tutor_id = $1 ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &animals, query, tutorID); err != nil {
		return nil, translateError(err, "animals", "list")
	}
	return animals, nil
}

func (r *animalRepository) Update(ctx context.Context, a *model.Animal) error {
	query := `
		UPDATE animals
		SET name = $1, species = $2, breed = $3, birth_date = $4, weight_kg = $5, tutor_id = $6
		WHERE id = $7
	`
	result, err := r.ext(ctx).ExecContext(ctx, query,
		a.Name,
		a.Species,
		a.Breed,
		a.BirthDate,
		a.WeightKg,
		a.TutorID,
		a.ID,
	)
	return checkAffected(result, err, "animal", "update")
}

func (r *animalRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ext(ctx).ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	return checkAffected(result, err, "animal", "delete")
}
