package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{NewBaseRepository(db)}
}

const userColumns = `id, name, email, password_hash, role, is_active, created_at`

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.ext(ctx).QueryRowxContext(ctx, query,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.IsActive,
	).Scan(&u.ID, &u.CreatedAt)
	return translateError(err, "user", "create")
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.ext(ctx), &u, query, id); err != nil {
		return nil, translateError(err, "user", "get")
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	if err := sqlx.GetContext(ctx, r.ext(ctx), &u, query, email); err != nil {
		return nil, translateError(err, "user", "get")
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	users := []*model.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &users, query); err != nil {
		return nil, translateError(err, "users", "list")
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, role = $4, is_active = $5
		WHERE id = $6
	`
	result, err := r.ext(ctx).ExecContext(ctx, query,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.IsActive,
		u.ID,
	)
	return checkAffected(result, err, "user", "update")
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ext(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return checkAffected(result, err, "user", "delete")
}
