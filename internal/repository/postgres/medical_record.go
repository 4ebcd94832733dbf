package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
)

type medicalRecordRepository struct {
	BaseRepository
}

func NewMedicalRecordRepository(db *sqlx.DB) repository.MedicalRecordRepository {
	return &medicalRecordRepository{NewBaseRepository(db)}
}

const medicalRecordColumns = `id, appointment_id, vet_id, diagnosis, treatment, prescriptions, follow_up_date, created_at, updated_at`

func (r *medicalRecordRepository) Create(ctx context.Context, m *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (
			appointment_id, vet_id, diagnosis, treatment,
			prescriptions, follow_up_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.ext(ctx).QueryRowxContext(ctx, query,
		m.AppointmentID,
		m.VetID,
		m.Diagnosis,
		m.Treatment,
		m.Prescriptions,
		m.FollowUpDate,
		m.CreatedAt,
		m.UpdatedAt,
	).Scan(&m.ID)
	return translateError(err, "medical record", "create")
}

func (r *medicalRecordRepository) Get(ctx context.Context, id int64) (*model.MedicalRecord, error) {
	var m model.MedicalRecord
	query := `SELECT ` + medicalRecordColumns + ` FROM medical_records WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.ext(ctx), &m, query, id); err != nil {
		return nil, translateError(err, "medical record", "get")
	}
	return &m, nil
}

func (r *medicalRecordRepository) GetByAppointment(ctx context.Context, appointmentID int64) (*model.MedicalRecord, error) {
	var m model.MedicalRecord
	query := `SELECT ` + medicalRecordColumns + ` FROM medical_records WHERE appointment_id = $1`
	if err := sqlx.GetContext(ctx, r.ext(ctx), &m, query, appointmentID); err != nil {
		return nil, translateError(err, "medical record", "get")
	}
	return &m, nil
}

func (r *medicalRecordRepository) List(ctx context.Context) ([]*model.MedicalRecord, error) {
	records := []*model.MedicalRecord{}
	query := `SELECT ` + medicalRecordColumns + ` FROM medical_records ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &records, query); err != nil {
		return nil, translateError(err, "medical records", "list")
	}
	return records, nil
}

func (r *medicalRecordRepository) ListByAppointments(ctx context.Context, appointmentIDs []int64) ([]*model.MedicalRecord, error) {
	records := []*model.MedicalRecord{}
	if len(appointmentIDs) == 0 {
		return records, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+medicalRecordColumns+` FROM medical_records WHERE appointment_id IN (?) ORDER BY id`,
		appointmentIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build medical record query: %w", err)
	}

	ext := r.ext(ctx)
	if err := sqlx.SelectContext(ctx, ext, &records, ext.Rebind(query), args...); err != nil {
		return nil, translateError(err, "medical records", "list")
	}
	return records, nil
}

func (r *medicalRecordRepository) Update(ctx context.Context, m *model.MedicalRecord) error {
	query := `
		UPDATE medical_records
		SET vet_id = $1, diagnosis = $2, treatment = $3, prescriptions = $4,
			follow_up_date = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.ext(ctx).ExecContext(ctx, query,
		m.VetID,
		m.Diagnosis,
		m.Treatment,
		m.Prescriptions,
		m.FollowUpDate,
		m.UpdatedAt,
		m.ID,
	)
	return checkAffected(result, err, "medical record", "update")
}

func (r *medicalRecordRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ext(ctx).ExecContext(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
	return checkAffected(result, err, "medical record", "delete")
}
