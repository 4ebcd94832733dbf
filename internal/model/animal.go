package model

import "time"

type Animal struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Species   string    `json:"species" db:"species"`
	Breed     string    `json:"breed" db:"breed"`
	BirthDate Date      `json:"birth_date" db:"birth_date"`
	WeightKg  float64   `json:"weight_kg" db:"weight_kg"`
	TutorID   int64     `json:"tutor_id" db:"tutor_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Weight is checked by the animal service so that non-positive values
// surface as a domain validation error rather than a binding error.
type CreateAnimalRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Species   string  `json:"species" binding:"required,max=50"`
	Breed     string  `json:"breed" binding:"max=50"`
	BirthDate Date    `json:"birth_date"`
	WeightKg  float64 `json:"weight_kg"`
	TutorID   int64   `json:"tutor_id" binding:"required"`
}

type UpdateAnimalRequest struct {
	Name      *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Species   *string  `json:"species" binding:"omitempty,min=1,max=50"`
	Breed     *string  `json:"breed" binding:"omitempty,max=50"`
	BirthDate *Date    `json:"birth_date"`
	WeightKg  *float64 `json:"weight_kg"`
	TutorID   *int64   `json:"tutor_id"`
}

// AnimalHistory is an animal with its appointments in insertion order, each
// carrying its medical record when one exists.
type AnimalHistory struct {
	Animal
	Appointments []AppointmentWithRecord `json:"appointments"`
}
