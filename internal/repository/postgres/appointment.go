package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db)}
}

// scheduled_at is a timestamp without zone holding UTC wall time.
const appointmentColumns = `id, animal_id, vet_id, scheduled_at, reason, status, notes, created_by, created_at`

func (r *appointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (animal_id, vet_id, scheduled_at, reason, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.ext(ctx).QueryRowxContext(ctx, query,
		a.AnimalID,
		a.VetID,
		a.ScheduledAt.UTC(),
		a.Reason,
		a.Status,
		a.Notes,
		a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt)
	return translateError(err, "appointment", "create")
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	var a model.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.ext(ctx), &a, query, id); err != nil {
		return nil, translateError(err, "appointment", "get")
	}
	a.ScheduledAt = asUTC(a.ScheduledAt)
	return &a, nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	return r.selectMany(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY id`)
}

func (r *appointmentRepository) ListByAnimal(ctx context.Context, animalID int64) ([]*model.Appointment, error) {
	return r.selectMany(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE animal_id = $1 ORDER BY id`, animalID)
}

func (r *appointmentRepository) selectMany(ctx context.Context, query string, args ...interface{}) ([]*model.Appointment, error) {
	appointments := []*model.Appointment{}
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &appointments, query, args...); err != nil {
		return nil, translateError(err, "appointments", "list")
	}
	for _, a := range appointments {
		a.ScheduledAt = asUTC(a.ScheduledAt)
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(ctx context.Context, a *model.Appointment) error {
	query := `
		UPDATE appointments
		SET animal_id = $1, vet_id = $2, scheduled_at = $3, reason = $4, status = $5, notes = $6
		WHERE id = $7
	`
	result, err := r.ext(ctx).ExecContext(ctx, query,
		a.AnimalID,
		a.VetID,
		a.ScheduledAt.UTC(),
		a.Reason,
		a.Status,
		a.Notes,
		a.ID,
	)
	return checkAffected(result, err, "appointment", "update")
}

// Delete relies on ON DELETE CASCADE to drop the medical record.
func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ext(ctx).ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return checkAffected(result, err, "appointment", "delete")
}

func (r *appointmentRepository) ExistsInWindow(ctx context.Context, vetID int64, from, to time.Time, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE vet_id = $1
			AND scheduled_at > $2
			AND scheduled_at < $3
			AND id <> $4
		)
	`
	var exists bool
	if err := sqlx.GetContext(ctx, r.ext(ctx), &exists, query, vetID, from.UTC(), to.UTC(), excludeID); err != nil {
		return false, translateError(err, "appointments", "check")
	}
	return exists, nil
}

// asUTC reinterprets a timestamp-without-zone value as UTC.
func asUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
