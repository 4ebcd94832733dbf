package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/vetclinic-api/internal/model"
)

// Lookups by id return an apperrors NotFound when the row is absent; writes
// that break a uniqueness or reference rule return an apperrors Conflict.

type TutorRepository interface {
	Create(ctx context.Context, tutor *model.Tutor) error
	Get(ctx context.Context, id int64) (*model.Tutor, error)
	List(ctx context.Context) ([]*model.Tutor, error)
	Update(ctx context.Context, tutor *model.Tutor) error
	Delete(ctx context.Context, id int64) error
}

type AnimalRepository interface {
	Create(ctx context.Context, animal *model.Animal) error
	Get(ctx context.Context, id int64) (*model.Animal, error)
	List(ctx context.Context) ([]*model.Animal, error)
	ListByTutor(ctx context.Context, tutorID int64) ([]*model.Animal, error)
	Update(ctx context.Context, animal *model.Animal) error
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id int64) (*model.Appointment, error)
	List(ctx context.Context) ([]*model.Appointment, error)
	ListByAnimal(ctx context.Context, animalID int64) ([]*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	// Delete also removes the appointment's medical record.
	Delete(ctx context.Context, id int64) error
	// ExistsInWindow reports whether the vet has an appointment strictly
	// between from and to, ignoring excludeID (0 excludes nothing).
	ExistsInWindow(ctx context.Context, vetID int64, from, to time.Time, excludeID int64) (bool, error)
}

type MedicalRecordRepository interface {
	Create(ctx context.Context, record *model.MedicalRecord) error
	Get(ctx context.Context, id int64) (*model.MedicalRecord, error)
	GetByAppointment(ctx context.Context, appointmentID int64) (*model.MedicalRecord, error)
	List(ctx context.Context) ([]*model.MedicalRecord, error)
	ListByAppointments(ctx context.Context, appointmentIDs []int64) ([]*model.MedicalRecord, error)
	Update(ctx context.Context, record *model.MedicalRecord) error
	Delete(ctx context.Context, id int64) error
}

// Transactor runs fn in one serializable unit of work. Repository calls made
// with the ctx passed to fn join that unit.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pinger reports store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles the repositories of one backend.
type Store interface {
	Transactor
	Pinger
	Tutors() TutorRepository
	Animals() AnimalRepository
	Users() UserRepository
	Appointments() AppointmentRepository
	MedicalRecords() MedicalRecordRepository
}
