package memory

import (
	"context"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
)

type medicalRecordRepo struct {
	s *Store
}

func cloneRecord(m model.MedicalRecord) *model.MedicalRecord {
	if m.Prescriptions != nil {
		m.Prescriptions = append(model.Prescriptions{}, m.Prescriptions...)
	}
	if m.FollowUpDate != nil {
		d := *m.FollowUpDate
		m.FollowUpDate = &d
	}
	return &m
}

func (r *medicalRecordRepo) Create(_ context.Context, m *model.MedicalRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[m.AppointmentID]; !ok {
		return apperrors.Conflict(repository.MsgStillReferenced, nil)
	}
	for _, other := range r.s.records {
		if other.AppointmentID == m.AppointmentID {
			return apperrors.Conflict(repository.MsgRecordExists, nil)
		}
	}
	m.ID = r.s.nextID("medical_records")
	r.s.records[m.ID] = *cloneRecord(*m)
	return nil
}

func (r *medicalRecordRepo) Get(_ context.Context, id int64) (*model.MedicalRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.records[id]
	if !ok {
		return nil, apperrors.NotFound("medical record", nil)
	}
	return cloneRecord(m), nil
}

func (r *medicalRecordRepo) GetByAppointment(_ context.Context, appointmentID int64) (*model.MedicalRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.records {
		if m.AppointmentID == appointmentID {
			return cloneRecord(m), nil
		}
	}
	return nil, apperrors.NotFound("medical record", nil)
}

func (r *medicalRecordRepo) List(_ context.Context) ([]*model.MedicalRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*model.MedicalRecord, 0, len(r.s.records))
	for _, id := range sortedKeys(r.s.records) {
		out = append(out, cloneRecord(r.s.records[id]))
	}
	return out, nil
}

func (r *medicalRecordRepo) ListByAppointments(_ context.Context, appointmentIDs []int64) ([]*model.MedicalRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(appointmentIDs))
	for _, id := range appointmentIDs {
		wanted[id] = struct{}{}
	}

	out := make([]*model.MedicalRecord, 0)
	for _, id := range sortedKeys(r.s.records) {
		m := r.s.records[id]
		if _, ok := wanted[m.AppointmentID]; ok {
			out = append(out, cloneRecord(m))
		}
	}
	return out, nil
}

func (r *medicalRecordRepo) Update(_ context.Context, m *model.MedicalRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.records[m.ID]; !ok {
		return apperrors.NotFound("medical record", nil)
	}
	r.s.records[m.ID] = *cloneRecord(*m)
	return nil
}

func (r *medicalRecordRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.records[id]; !ok {
		return apperrors.NotFound("medical record", nil)
	}
	delete(r.s.records, id)
	return nil
}
