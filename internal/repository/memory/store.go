// Package memory keeps every entity in process memory. It backs the test
// suites and the "memory" database driver.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
)

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	seq          map[string]int64
	tutors       map[int64]model.Tutor
	animals      map[int64]model.Animal
	users        map[int64]model.User
	appointments map[int64]model.Appointment
	records      map[int64]model.MedicalRecord
}

func NewStore() *Store {
	return &Store{
		seq:          make(map[string]int64),
		tutors:       make(map[int64]model.Tutor),
		animals:      make(map[int64]model.Animal),
		users:        make(map[int64]model.User),
		appointments: make(map[int64]model.Appointment),
		records:      make(map[int64]model.MedicalRecord),
	}
}

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// WithinTx serialises units of work. Writes made before fn fails are kept;
// callers check before they write.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx)
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Tutors() repository.TutorRepository {
	return &tutorRepo{s}
}

func (s *Store) Animals() repository.AnimalRepository {
	return &animalRepo{s}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepo{s}
}

func (s *Store) Appointments() repository.AppointmentRepository {
	return &appointmentRepo{s}
}

func (s *Store) MedicalRecords() repository.MedicalRecordRepository {
	return &medicalRecordRepo{s}
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

var _ repository.Store = (*Store)(nil)
