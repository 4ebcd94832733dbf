package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is the closed set of staff roles.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleVet          Role = "vet"
	RoleReceptionist Role = "receptionist"
)

var roles = map[Role]struct{}{
	RoleAdmin:        {},
	RoleVet:          {},
	RoleReceptionist: {},
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roles[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   int64
	Role Role
}

func (u *User) Actor() *Actor {
	return &Actor{ID: u.ID, Role: u.Role}
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role" binding:"required,role"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=150"`
	Email    *string `json:"email" binding:"omitempty,email,max=200"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     *Role   `json:"role" binding:"omitempty,role"`
}

type SetUserActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
