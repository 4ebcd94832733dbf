package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Enum reports whether a value belongs to a closed set; the model enums
// (Role, AppointmentStatus) satisfy it.
type Enum interface {
	Valid() bool
}

var registerOnce sync.Once

// Register installs the custom tags on gin's validator engine. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		for _, tag := range []string{"role", "appointment_status"} {
			if err := v.RegisterValidation(tag, validEnum); err != nil {
				panic(fmt.Sprintf("register %s validation: %v", tag, err))
			}
		}
	})
}

func validEnum(fl validator.FieldLevel) bool {
	if e, ok := fl.Field().Interface().(Enum); ok {
		return e.Valid()
	}
	return false
}

// Message renders binding errors as one readable line.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fe.Field(), fe.Param())
	case "role":
		return fmt.Sprintf("%s must be one of admin, vet, receptionist", fe.Field())
	case "appointment_status":
		return fmt.Sprintf("%s must be one of scheduled, in_progress, completed, cancelled", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
