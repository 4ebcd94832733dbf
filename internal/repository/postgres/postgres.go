package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/vetclinic-api/internal/repository"
)

// Store wires every Postgres repository to one pool.
type Store struct {
	*Transactor
	tutors       repository.TutorRepository
	animals      repository.AnimalRepository
	users        repository.UserRepository
	appointments repository.AppointmentRepository
	records      repository.MedicalRecordRepository
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		Transactor:   NewTransactor(db),
		tutors:       NewTutorRepository(db),
		animals:      NewAnimalRepository(db),
		users:        NewUserRepository(db),
		appointments: NewAppointmentRepository(db),
		records:      NewMedicalRecordRepository(db),
	}
}

func (s *Store) Tutors() repository.TutorRepository { return s.tutors }

func (s *Store) Animals() repository.AnimalRepository { return s.animals }

func (s *Store) Users() repository.UserRepository { return s.users }

func (s *Store) Appointments() repository.AppointmentRepository { return s.appointments }

func (s *Store) MedicalRecords() repository.MedicalRecordRepository { return s.records }

var _ repository.Store = (*Store)(nil)
