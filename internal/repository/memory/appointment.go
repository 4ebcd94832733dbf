package memory

import (
	"context"
	"time"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
)

type appointmentRepo struct {
	s *Store
}

func cloneAppointment(a model.Appointment) *model.Appointment {
	if a.Notes != nil {
		notes := *a.Notes
		a.Notes = &notes
	}
	return &a
}

func (r *appointmentRepo) checkRefs(a *model.Appointment) error {
	if _, ok := r.s.animals[a.AnimalID]; !ok {
		return apperrors.Conflict(repository.MsgStillReferenced, nil)
	}
	if _, ok := r.s.users[a.VetID]; !ok {
		return apperrors.Conflict(repository.MsgStillReferenced, nil)
	}
	return nil
}

func (r *appointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(a); err != nil {
		return err
	}
	a.ID = r.s.nextID("appointments")
	r.s.appointments[a.ID] = *cloneAppointment(*a)
	return nil
}

func (r *appointmentRepo) Get(_ context.Context, id int64) (*model.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return cloneAppointment(a), nil
}

func (r *appointmentRepo) List(_ context.Context) ([]*model.Appointment, error) {
	return r.filter(func(model.Appointment) bool { return true }), nil
}

func (r *appointmentRepo) ListByAnimal(_ context.Context, animalID int64) ([]*model.Appointment, error) {
	return r.filter(func(a model.Appointment) bool { return a.AnimalID == animalID }), nil
}

func (r *appointmentRepo) filter(keep func(model.Appointment) bool) []*model.Appointment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*model.Appointment, 0)
	for _, id := range sortedKeys(r.s.appointments) {
		if a := r.s.appointments[id]; keep(a) {
			out = append(out, cloneAppointment(a))
		}
	}
	return out
}

func (r *appointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[a.ID]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	if err := r.checkRefs(a); err != nil {
		return err
	}
	r.s.appointments[a.ID] = *cloneAppointment(*a)
	return nil
}

func (r *appointmentRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[id]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	for recID, rec := range r.s.records {
		if rec.AppointmentID == id {
			delete(r.s.records, recID)
		}
	}
	delete(r.s.appointments, id)
	return nil
}

func (r *appointmentRepo) ExistsInWindow(_ context.Context, vetID int64, from, to time.Time, excludeID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for id, a := range r.s.appointments {
		if id == excludeID || a.VetID != vetID {
			continue
		}
		if a.ScheduledAt.After(from) && a.ScheduledAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}
