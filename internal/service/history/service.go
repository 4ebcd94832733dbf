// Package history assembles an animal's clinical history.
package history

import (
	"context"
	"fmt"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
)

type Service struct {
	animals      repository.AnimalRepository
	appointments repository.AppointmentRepository
	records      repository.MedicalRecordRepository
	tx           repository.Transactor
}

func NewService(animals repository.AnimalRepository, appointments repository.AppointmentRepository, records repository.MedicalRecordRepository, tx repository.Transactor) *Service {
	return &Service{animals: animals, appointments: appointments, records: records, tx: tx}
}

// GetAnimalHistory returns the animal with all of its appointments in
// insertion order, each carrying its medical record when one exists. The
// three reads share one transaction so a concurrent delete never yields a
// partial tree.
func (s *Service) GetAnimalHistory(ctx context.Context, animalID int64) (*model.AnimalHistory, error) {
	var out *model.AnimalHistory
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.load(ctx, animalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, animalID int64) (*model.AnimalHistory, error) {
	animal, err := s.animals.Get(ctx, animalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}

	apts, err := s.appointments.ListByAnimal(ctx, animalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	ids := make([]int64, 0, len(apts))
	for _, a := range apts {
		ids = append(ids, a.ID)
	}

	records, err := s.records.ListByAppointments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	byAppointment := make(map[int64]*model.MedicalRecord, len(records))
	for _, r := range records {
		byAppointment[r.AppointmentID] = r
	}

	out := &model.AnimalHistory{
		Animal:       *animal,
		Appointments: make([]model.AppointmentWithRecord, 0, len(apts)),
	}
	for _, a := range apts {
		out.Appointments = append(out.Appointments, model.AppointmentWithRecord{
			Appointment:   *a,
			MedicalRecord: byAppointment[a.ID],
		})
	}
	return out, nil
}
