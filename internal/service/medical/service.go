package medical

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/vetclinic-api/internal/authz"
	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	"github.com/jwalitptl/vetclinic-api/internal/service/audit"
	"github.com/jwalitptl/vetclinic-api/pkg/clock"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
	"github.com/jwalitptl/vetclinic-api/pkg/logger"
	"github.com/jwalitptl/vetclinic-api/pkg/messaging"
	"github.com/jwalitptl/vetclinic-api/pkg/metrics"
)

const (
	msgNotAppointmentVet = "You are not the veterinarian of this appointment"
	entityMedicalRecord  = "medical_record"
)

type Service struct {
	repo         repository.MedicalRecordRepository
	appointments repository.AppointmentRepository
	publisher    messaging.Publisher
	metrics      *metrics.Metrics
	auditor      *audit.Service
	clock        clock.Clock
	log          *logger.Logger
}

func NewService(
	repo repository.MedicalRecordRepository,
	appointments repository.AppointmentRepository,
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
		repo:         repo,
		appointments: appointments,
		publisher:    publisher,
		metrics:      m,
		auditor:      auditor,
		clock:        clk,
		log:          log,
	}
}

// authorizeVet loads the appointment and checks that actor is its vet.
func (s *Service) authorizeVet(ctx context.Context, actor *model.Actor, appointmentID int64) (*model.Appointment, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}
	apt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if err := authz.RequireSelf(actor, apt.VetID, msgNotAppointmentVet); err != nil {
		return nil, err
	}
	return apt, nil
}

func validateContent(diagnosis, treatment string, prescriptions []model.Prescription) error {
	if strings.TrimSpace(diagnosis) == "" {
		return apperrors.BadRequest("diagnosis is required", nil)
	}
	if strings.TrimSpace(treatment) == "" {
		return apperrors.BadRequest("treatment is required", nil)
	}
	for i, p := range prescriptions {
		if strings.TrimSpace(p.Medicine) == "" || strings.TrimSpace(p.Dosage) == "" || strings.TrimSpace(p.Frequency) == "" {
			return apperrors.BadRequest(fmt.Sprintf("prescription %d: medicine, dosage and frequency are required", i), nil)
		}
		if p.DurationDays <= 0 {
			return apperrors.BadRequest(fmt.Sprintf("prescription %d: duration_days must be positive", i), nil)
		}
	}
	return nil
}

// CreateMedicalRecord attaches the record to its appointment. Only the
// appointment's vet may author it and the vet id in the request is ignored.
func (s *Service) CreateMedicalRecord(ctx context.Context, req *model.CreateMedicalRecordRequest, actor *model.Actor) (*model.MedicalRecord, error) {
	if _, err := s.authorizeVet(ctx, actor, req.AppointmentID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByAppointment(ctx, req.AppointmentID)
	switch {
	case err == nil && existing != nil:
		return nil, apperrors.Conflict(repository.MsgRecordExists, nil)
	case err != nil && !apperrors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to look up medical record: %w", err)
	}

	if err := validateContent(req.Diagnosis, req.Treatment, req.Prescriptions); err != nil {
		return nil, err
	}

	prescriptions := model.Prescriptions(req.Prescriptions)
	if prescriptions == nil {
		prescriptions = model.Prescriptions{}
	}

	now := s.clock.Now()
	rec := &model.MedicalRecord{
		AppointmentID: req.AppointmentID,
		VetID:         actor.ID,
		Diagnosis:     req.Diagnosis,
		Treatment:     req.Treatment,
		Prescriptions: prescriptions,
		FollowUpDate:  req.FollowUpDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create medical record: %w", err)
	}

	s.written("create")
	s.auditor.Log(ctx, actor.ID, "create", entityMedicalRecord, rec.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"appointment_id": rec.AppointmentID},
	})
	s.publish(ctx, messaging.EventMedicalRecordCreated, rec)

	return rec, nil
}

// UpdateMedicalRecord merges the fields present in req. The author check runs
// against the appointment the record belongs to.
func (s *Service) UpdateMedicalRecord(ctx context.Context, id int64, req *model.UpdateMedicalRecordRequest, actor *model.Actor) (*model.MedicalRecord, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}
	if _, err := s.authorizeVet(ctx, actor, rec.AppointmentID); err != nil {
		return nil, err
	}

	if req.Diagnosis != nil {
		rec.Diagnosis = *req.Diagnosis
	}
	if req.Treatment != nil {
		rec.Treatment = *req.Treatment
	}
	if req.Prescriptions != nil {
		rec.Prescriptions = model.Prescriptions(*req.Prescriptions)
		if rec.Prescriptions == nil {
			rec.Prescriptions = model.Prescriptions{}
		}
	}
	if req.FollowUpDate != nil {
		rec.FollowUpDate = req.FollowUpDate
	}

	if err := validateContent(rec.Diagnosis, rec.Treatment, rec.Prescriptions); err != nil {
		return nil, err
	}

	rec.VetID = actor.ID
	rec.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update medical record: %w", err)
	}

	s.written("update")
	s.auditor.Log(ctx, actor.ID, "update", entityMedicalRecord, rec.ID, &audit.LogOptions{Changes: req})
	s.publish(ctx, messaging.EventMedicalRecordUpdated, rec)

	return rec, nil
}

func (s *Service) GetMedicalRecord(ctx context.Context, id int64) (*model.MedicalRecord, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}
	return rec, nil
}

func (s *Service) ListMedicalRecords(ctx context.Context) ([]*model.MedicalRecord, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return recs, nil
}

func (s *Service) DeleteMedicalRecord(ctx context.Context, id int64, actor *model.Actor) error {
	if err := authz.Authenticated(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete medical record: %w", err)
	}
	s.auditor.Log(ctx, actor.ID, "delete", entityMedicalRecord, id, nil)
	return nil
}

func (s *Service) written(op string) {
	if s.metrics != nil {
		s.metrics.MedicalRecordsWritten.WithLabelValues(op).Inc()
	}
}

func (s *Service) publish(ctx context.Context, eventType string, payload interface{}) {
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.log.Error(err, "failed to publish event", map[string]interface{}{"event": eventType})
	}
}
