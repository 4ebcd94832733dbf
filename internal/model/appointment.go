package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// AppointmentStatus is the closed set of appointment states.
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
)

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	st := AppointmentStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
	return st, nil
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

func (s AppointmentStatus) String() string {
	return string(s)
}

func (s *AppointmentStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseAppointmentStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Appointment struct {
	ID          int64             `json:"id" db:"id"`
	AnimalID    int64             `json:"animal_id" db:"animal_id"`
	VetID       int64             `json:"vet_id" db:"vet_id"`
	ScheduledAt time.Time         `json:"scheduled_at" db:"scheduled_at"`
	Reason      string            `json:"reason" db:"reason"`
	Status      AppointmentStatus `json:"status" db:"status"`
	Notes       *string           `json:"notes" db:"notes"`
	CreatedBy   int64             `json:"created_by" db:"created_by"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}

// AppointmentWithRecord is one entry of an animal history.
type AppointmentWithRecord struct {
	Appointment
	MedicalRecord *MedicalRecord `json:"medical_record"`
}

type CreateAppointmentRequest struct {
	AnimalID    int64     `json:"animal_id" binding:"required"`
	VetID       int64     `json:"vet_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Reason      string    `json:"reason" binding:"required,max=300"`
	Notes       *string   `json:"notes"`
}

type UpdateAppointmentRequest struct {
	AnimalID *int64  `json:"animal_id"`
	VetID    *int64  `json:"vet_id"`
	Reason   *string `json:"reason" binding:"omitempty,min=1,max=300"`
	Notes    *string `json:"notes"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,appointment_status"`
}
