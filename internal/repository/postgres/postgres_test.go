package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		op      string
		code    apperrors.ErrorCode
		message string
	}{
		{"no rows", sql.ErrNoRows, "get", apperrors.ErrNotFound, "tutor not found"},
		{"duplicate cpf", &pq.Error{Code: "23505", Constraint: "tutors_cpf_key"}, "create", apperrors.ErrConflict, repository.MsgTutorCPFTaken},
		{"duplicate email", &pq.Error{Code: "23505", Constraint: "users_email_key"}, "create", apperrors.ErrConflict, repository.MsgUserEmailTaken},
		{"exclusion", &pq.Error{Code: "23P01", Constraint: "appointments_vet_window_excl"}, "create", apperrors.ErrConflict, repository.MsgVetBusy},
		{"serialization", &pq.Error{Code: "40001"}, "commit", apperrors.ErrConflict, repository.MsgConcurrentChange},
		{"delete referenced tutor", &pq.Error{Code: "23503", Constraint: "animals_tutor_id_fkey"}, "delete", apperrors.ErrConflict, repository.MsgTutorHasAnimals},
		{"insert missing reference", &pq.Error{Code: "23503", Constraint: "animals_tutor_id_fkey"}, "create", apperrors.ErrConflict, repository.MsgStillReferenced},
		{"check", &pq.Error{Code: "23514", Constraint: "animals_weight_kg_check"}, "create", apperrors.ErrBadRequest, "invalid tutor: animals_weight_kg_check"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(tt.err, "tutor", tt.op)
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}

	plain := translateError(errors.New("connection reset"), "tutor", "get")
	assert.False(t, apperrors.Is(plain, apperrors.ErrNotFound))
	assert.EqualError(t, plain, "failed to get tutor: connection reset")
	assert.NoError(t, translateError(nil, "tutor", "get"))
}

func TestExistsInWindow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAppointmentRepository(db)

	at := time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(7), sqlmock.AnyArg(), sqlmock.AnyArg(), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	found, err := repo.ExistsInWindow(context.Background(), 7, at.Add(-30*time.Minute), at.Add(30*time.Minute), 0)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingAppointmentIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectExec(`DELETE FROM appointments`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 5)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAppointmentReadsUTC(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAppointmentRepository(db)

	wall := time.Date(2030, 5, 1, 10, 0, 0, 0, time.FixedZone("", 0))
	rows := sqlmock.NewRows([]string{"id", "animal_id", "vet_id", "scheduled_at", "reason", "status", "notes", "created_by", "created_at"}).
		AddRow(int64(1), int64(2), int64(3), wall, "checkup", "scheduled", nil, int64(4), time.Now())
	mock.ExpectQuery(`FROM appointments WHERE id = \$1`).WithArgs(int64(1)).WillReturnRows(rows)

	apt, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, apt.ScheduledAt.Location())
	assert.Equal(t, 10, apt.ScheduledAt.Hour())
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Nil(t, apt.Notes)
}

func TestWithinTxCommitsAndBindsTransaction(t *testing.T) {
	db, mock := newMock(t)
	tx := NewTransactor(db)
	repo := NewAppointmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectCommit()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := repo.ExistsInWindow(ctx, 1, time.Now(), time.Now().Add(time.Hour), 0)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	tx := NewTransactor(db)
	want := apperrors.Conflict(repository.MsgVetBusy, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return want
	})
	assert.ErrorIs(t, err, want)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByAppointmentsExpandsIDs(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMedicalRecordRepository(db)

	empty, err := repo.ListByAppointments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	rows := sqlmock.NewRows([]string{"id", "appointment_id", "vet_id", "diagnosis", "treatment", "prescriptions", "follow_up_date", "created_at", "updated_at"}).
		AddRow(int64(9), int64(2), int64(3), "otitis", "drops", []byte(`[{"medicine":"otomax","dosage":"5 drops","frequency":"12h","duration_days":7}]`), nil, time.Now(), time.Now())
	mock.ExpectQuery(`WHERE appointment_id IN \(\$1, \$2\)`).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(rows)

	records, err := repo.ListByAppointments(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "otomax", records[0].Prescriptions[0].Medicine)
	assert.Nil(t, records[0].FollowUpDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
