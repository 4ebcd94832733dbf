package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type MedicalRecord struct {
	ID            int64         `json:"id" db:"id"`
	AppointmentID int64         `json:"appointment_id" db:"appointment_id"`
	VetID         int64         `json:"vet_id" db:"vet_id"`
	Diagnosis     string        `json:"diagnosis" db:"diagnosis"`
	Treatment     string        `json:"treatment" db:"treatment"`
	Prescriptions Prescriptions `json:"prescriptions" db:"prescriptions"`
	FollowUpDate  *Date         `json:"follow_up_date" db:"follow_up_date"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

type Prescription struct {
	Medicine     string `json:"medicine"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	DurationDays int    `json:"duration_days"`
}

// Prescriptions is stored as a JSONB array. Values are written as text so
// lib/pq does not encode them as bytea.
type Prescriptions []Prescription

func (p Prescriptions) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prescriptions: %w", err)
	}
	return string(b), nil
}

func (p *Prescriptions) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*p = Prescriptions{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Prescriptions", src)
	}
	return json.Unmarshal(b, p)
}

// VetID on create is accepted for compatibility but always replaced by the
// authenticated author.
type CreateMedicalRecordRequest struct {
	AppointmentID int64          `json:"appointment_id" binding:"required"`
	VetID         *int64         `json:"vet_id"`
	Diagnosis     string         `json:"diagnosis"`
	Treatment     string         `json:"treatment"`
	Prescriptions []Prescription `json:"prescriptions"`
	FollowUpDate  *Date          `json:"follow_up_date"`
}

type UpdateMedicalRecordRequest struct {
	Diagnosis     *string         `json:"diagnosis"`
	Treatment     *string         `json:"treatment"`
	Prescriptions *[]Prescription `json:"prescriptions"`
	FollowUpDate  *Date           `json:"follow_up_date"`
}
