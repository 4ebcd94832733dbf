package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jwalitptl/vetclinic-api/internal/repository"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
)

const (
	codeUniqueViolation     pq.ErrorCode = "23505"
	codeForeignKeyViolation pq.ErrorCode = "23503"
	codeCheckViolation      pq.ErrorCode = "23514"
	codeExclusionViolation  pq.ErrorCode = "23P01"
	codeSerialization       pq.ErrorCode = "40001"
)

var uniqueMessages = map[string]string{
	"tutors_cpf_key":                     repository.MsgTutorCPFTaken,
	"tutors_email_key":                   repository.MsgTutorEmailTaken,
	"users_email_key":                    repository.MsgUserEmailTaken,
	"medical_records_appointment_id_key": repository.MsgRecordExists,
}

var foreignKeyMessages = map[string]string{
	"animals_tutor_id_fkey":       repository.MsgTutorHasAnimals,
	"appointments_animal_id_fkey": repository.MsgAnimalHasAppointment,
}

// translateError maps storage faults onto the application error taxonomy.
func translateError(err error, resource, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(resource, nil)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			msg, ok := uniqueMessages[pqErr.Constraint]
			if !ok {
				msg = resource + " already exists"
			}
			return apperrors.Conflict(msg, err)
		case codeForeignKeyViolation:
			msg, ok := foreignKeyMessages[pqErr.Constraint]
			if !ok || op != "delete" {
				msg = repository.MsgStillReferenced
			}
			return apperrors.Conflict(msg, err)
		case codeExclusionViolation:
			return apperrors.Conflict(repository.MsgVetBusy, err)
		case codeSerialization:
			return apperrors.Conflict(repository.MsgConcurrentChange, err)
		case codeCheckViolation:
			return apperrors.BadRequest(fmt.Sprintf("invalid %s: %s", resource, pqErr.Constraint), err)
		}
	}

	return fmt.Errorf("failed to %s %s: %w", op, resource, err)
}

// checkAffected turns a write that touched no rows into NotFound.
func checkAffected(result sql.Result, err error, resource, op string) error {
	if err != nil {
		return translateError(err, resource, op)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound(resource, nil)
	}
	return nil
}
