package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
)

type tutorRepository struct {
	BaseRepository
}

func NewTutorRepository(db *sqlx.DB) repository.TutorRepository {
	return &tutorRepository{NewBaseRepository(db)}
}

const tutorColumns = `id, name, cpf, email, phone, address, created_at`

func (r *tutorRepository) Create(ctx context.Context, t *model.Tutor) error {
	query := `
		INSERT INTO tutors (name, cpf, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.ext(ctx).QueryRowxContext(ctx, query,
		t.Name,
		t.CPF,
		t.Email,
		t.Phone,
		t.Address,
	).Scan(&t.ID, &t.CreatedAt)
	return translateError(err, "tutor", "create")
}

func (r *tutorRepository) Get(ctx context.Context, id int64) (*model.Tutor, error) {
	var t model.Tutor
	query := `SELECT ` + tutorColumns + ` FROM tutors WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.ext(ctx), &t, query, id); err != nil {
		return nil, translateError(err, "tutor", "get")
	}
	return &t, nil
}

func (r *tutorRepository) List(ctx context.Context) ([]*model.Tutor, error) {
	tutors := []*model.Tutor{}
	query := `SELECT ` + tutorColumns + ` FROM tutors ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &tutors, query); err != nil {
		return nil, translateError(err, "tutors", "list")
	}
	return tutors, nil
}

func (r *tutorRepository) Update(ctx context.Context, t *model.Tutor) error {
	query := `
		UPDATE tutors
		SET name = $1, cpf = $2, email = $3, phone = $4, address = $5
		WHERE id = $6
	`
	result, err := r.ext(ctx).ExecContext(ctx, query,
		t.Name,
		t.CPF,
		t.Email,
		t.Phone,
		t.Address,
		t.ID,
	)
	return checkAffected(result, err, "tutor", "update")
}

func (r *tutorRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ext(ctx).ExecContext(ctx, `DELETE FROM tutors WHERE id = $1`, id)
	return checkAffected(result, err, "tutor", "delete")
}
