package model

import "time"

type Tutor struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CPF       string    `json:"cpf" db:"cpf"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TutorWithAnimals is a tutor together with every animal it owns.
type TutorWithAnimals struct {
	Tutor
	Animals []Animal `json:"animals"`
}

type CreateTutorRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	CPF     string `json:"cpf" binding:"required,max=14"`
	Email   string `json:"email" binding:"required,email,max=200"`
	Phone   string `json:"phone" binding:"max=20"`
	Address string `json:"address" binding:"max=300"`
}

type UpdateTutorRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
	CPF     *string `json:"cpf" binding:"omitempty,min=1,max=14"`
	Email   *string `json:"email" binding:"omitempty,email,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Address *string `json:"address" binding:"omitempty,max=300"`
}
