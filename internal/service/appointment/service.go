package appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jwalitptl/vetclinic-api/internal/authz"
	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	"github.com/jwalitptl/vetclinic-api/internal/service/audit"
	"github.com/jwalitptl/vetclinic-api/pkg/clock"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
	"github.com/jwalitptl/vetclinic-api/pkg/lock"
	"github.com/jwalitptl/vetclinic-api/pkg/logger"
	"github.com/jwalitptl/vetclinic-api/pkg/messaging"
	"github.com/jwalitptl/vetclinic-api/pkg/metrics"
)

// Scheduling rules
const (
	MinLeadTime    = 30 * time.Minute
	ConflictWindow = 30 * time.Minute
)

const (
	msgTooSoon        = "appointments must be scheduled at least 30 minutes in advance"
	msgCreateDenied   = "Only admins and receptionists can schedule appointments"
	msgVetNotVet      = "vet_id must reference a user with the vet role"
	msgScheduleBusy   = "vet schedule is being changed, try again"
	msgVetPinned      = "appointment already has a medical record; its vet cannot change"
	entityAppointment = "appointment"
)

type Service struct {
	repo      repository.AppointmentRepository
	animals   repository.AnimalRepository
	users     repository.UserRepository
	records   repository.MedicalRecordRepository
	tx        repository.Transactor
	locker    lock.Locker
	detector  *ConflictDetector
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	auditor   *audit.Service
	clock     clock.Clock
	log       *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	animals repository.AnimalRepository,
	users repository.UserRepository,
	records repository.MedicalRecordRepository,
	tx repository.Transactor,
	locker lock.Locker,
	publisher messaging.Publisher,
	m *metrics.Metrics,
	auditor *audit.Service,
	clk clock.Clock,
	log *logger.Logger,
) *Service {
	if publisher == nil {
		publisher = messaging.NewNopPublisher()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		animals:   animals,
		users:     users,
		records:   records,
		tx:        tx,
		locker:    locker,
		detector:  NewConflictDetector(repo),
		publisher: publisher,
		metrics:   m,
		auditor:   auditor,
		clock:     clk,
		log:       log,
	}
}

func vetLockKey(vetID int64) string {
	return "vet:" + strconv.FormatInt(vetID, 10)
}

// CreateAppointment schedules a new appointment. The conflict check and the
// insert run under the vet's lock and inside one serializable transaction.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest, actor *model.Actor) (*model.Appointment, error) {
	if err := authz.Require(actor, msgCreateDenied, model.RoleAdmin, model.RoleReceptionist); err != nil {
		return nil, err
	}

	at := req.ScheduledAt.UTC()
	if at.Before(s.clock.Now().Add(MinLeadTime)) {
		s.reject(metrics.ReasonTooSoon)
		return nil, apperrors.BadRequest(msgTooSoon, nil)
	}

	if _, err := s.animals.Get(ctx, req.AnimalID); err != nil {
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}
	if err := s.checkVet(ctx, req.VetID); err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		AnimalID:    req.AnimalID,
		VetID:       req.VetID,
		ScheduledAt: at,
		Reason:      req.Reason,
		Status:      model.AppointmentStatusScheduled,
		Notes:       req.Notes,
		CreatedBy:   actor.ID,
	}

	err := s.scheduleGuarded(ctx, apt.VetID, func(ctx context.Context) error {
		conflict, err := s.detector.HasConflict(ctx, apt.VetID, apt.ScheduledAt, 0)
		if err != nil {
			return err
		}
		if conflict {
			return apperrors.Conflict(repository.MsgVetBusy, nil)
		}
		apt.CreatedAt = s.clock.Now()
		return s.repo.Create(ctx, apt)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AppointmentsScheduled.Inc()
	}
	s.log.Info("appointment scheduled", map[string]interface{}{
		"appointment_id": apt.ID,
		"vet_id":         apt.VetID,
		"scheduled_at":   apt.ScheduledAt,
	})
	s.auditor.Log(ctx, actor.ID, "create", entityAppointment, apt.ID, &audit.LogOptions{Changes: apt})
	s.publish(ctx, messaging.EventAppointmentScheduled, apt)

	return apt, nil
}

// scheduleGuarded runs fn holding the vet's lock inside a transaction and
// records why a request was rejected.
func (s *Service) scheduleGuarded(ctx context.Context, vetID int64, fn func(ctx context.Context) error) error {
	err := s.locker.WithLock(ctx, vetLockKey(vetID), func(ctx context.Context) error {
		return s.tx.WithinTx(ctx, fn)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, lock.ErrNotAcquired):
		s.reject(metrics.ReasonBusy)
		s.log.Warn("vet schedule locked", map[string]interface{}{"vet_id": vetID})
		return apperrors.Conflict(msgScheduleBusy, err)
	case apperrors.Is(err, apperrors.ErrConflict):
		s.reject(metrics.ReasonConflict)
		s.log.Warn("appointment rejected", map[string]interface{}{"vet_id": vetID, "reason": err.Error()})
		return err
	default:
		return fmt.Errorf("failed to save appointment: %w", err)
	}
}

func (s *Service) checkVet(ctx context.Context, vetID int64) error {
	vet, err := s.users.Get(ctx, vetID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("vet", err)
		}
		return fmt.Errorf("failed to get vet: %w", err)
	}
	if vet.Role != model.RoleVet {
		return apperrors.BadRequest(msgVetNotVet, nil)
	}
	return nil
}

func (s *Service) checkNoRecord(ctx context.Context, appointmentID int64) error {
	_, err := s.records.GetByAppointment(ctx, appointmentID)
	switch {
	case err == nil:
		return apperrors.Conflict(msgVetPinned, nil)
	case apperrors.Is(err, apperrors.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to get medical record: %w", err)
	}
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) ListAppointments(ctx context.Context) ([]*model.Appointment, error) {
	apts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return apts, nil
}

// UpdateAppointment merges the fields present in req. Moving the appointment
// to another vet re-runs the conflict check against that vet's schedule and is
// refused once a medical record exists, since the record's vet must match.
func (s *Service) UpdateAppointment(ctx context.Context, id int64, req *model.UpdateAppointmentRequest, actor *model.Actor) (*model.Appointment, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if req.AnimalID != nil && *req.AnimalID != apt.AnimalID {
		if _, err := s.animals.Get(ctx, *req.AnimalID); err != nil {
			return nil, fmt.Errorf("failed to get animal: %w", err)
		}
		apt.AnimalID = *req.AnimalID
	}
	if req.Reason != nil {
		apt.Reason = *req.Reason
	}
	if req.Notes != nil {
		apt.Notes = req.Notes
	}

	vetChanged := req.VetID != nil && *req.VetID != apt.VetID
	if !vetChanged {
		if err := s.repo.Update(ctx, apt); err != nil {
			return nil, fmt.Errorf("failed to update appointment: %w", err)
		}
	} else {
		if err := s.checkVet(ctx, *req.VetID); err != nil {
			return nil, err
		}
		apt.VetID = *req.VetID
		err := s.scheduleGuarded(ctx, apt.VetID, func(ctx context.Context) error {
			if err := s.checkNoRecord(ctx, apt.ID); err != nil {
				return err
			}
			conflict, err := s.detector.HasConflict(ctx, apt.VetID, apt.ScheduledAt, apt.ID)
			if err != nil {
				return err
			}
			if conflict {
				return apperrors.Conflict(repository.MsgVetBusy, nil)
			}
			return s.repo.Update(ctx, apt)
		})
		if err != nil {
			return nil, err
		}
	}

	s.auditor.Log(ctx, actor.ID, "update", entityAppointment, apt.ID, &audit.LogOptions{Changes: req})
	s.publish(ctx, messaging.EventAppointmentUpdated, apt)

	return apt, nil
}

// PatchStatus sets the status unconditionally. Any status may follow any
// other, including leaving completed or cancelled.
func (s *Service) PatchStatus(ctx context.Context, id int64, status model.AppointmentStatus, actor *model.Actor) (*model.Appointment, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown appointment status %q", status), nil)
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	from := apt.Status
	apt.Status = status
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(from.String(), status.String()).Inc()
	}
	s.log.Info("appointment status changed", map[string]interface{}{
		"appointment_id": apt.ID,
		"from":           from,
		"to":             status,
	})
	s.auditor.Log(ctx, actor.ID, "status_change", entityAppointment, apt.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"from": from, "to": status},
	})
	s.publish(ctx, messaging.EventAppointmentStatusChanged, map[string]interface{}{
		"appointment_id": apt.ID,
		"from":           from,
		"to":             status,
	})

	return apt, nil
}

// DeleteAppointment removes the appointment together with its medical record.
func (s *Service) DeleteAppointment(ctx context.Context, id int64, actor *model.Actor) error {
	if err := authz.Authenticated(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	s.auditor.Log(ctx, actor.ID, "delete", entityAppointment, id, nil)
	s.publish(ctx, messaging.EventAppointmentDeleted, map[string]interface{}{"appointment_id": id})
	return nil
}

func (s *Service) reject(reason string) {
	if s.metrics != nil {
		s.metrics.SchedulingRejections.WithLabelValues(reason).Inc()
	}
}

// publish is best effort; the write has already committed.
func (s *Service) publish(ctx context.Context, eventType string, payload interface{}) {
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.log.Error(err, "failed to publish event", map[string]interface{}{"event": eventType})
	}
}
