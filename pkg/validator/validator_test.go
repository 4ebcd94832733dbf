package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type colour string

func (c colour) Valid() bool { return c == "red" || c == "blue" }

type paintRequest struct {
	Name   string  `json:"name" binding:"required"`
	Colour colour  `json:"colour" binding:"required,role"`
	Accent *colour `json:"accent" binding:"omitempty,appointment_status"`
}

func TestRegisteredEnumTags(t *testing.T) {
	Register()
	Register()

	green := colour("green")
	blue := colour("blue")

	assert.NoError(t, binding.Validator.ValidateStruct(&paintRequest{Name: "wall", Colour: "red"}))
	assert.NoError(t, binding.Validator.ValidateStruct(&paintRequest{Name: "wall", Colour: "red", Accent: &blue}))

	err := binding.Validator.ValidateStruct(&paintRequest{Name: "wall", Colour: "green"})
	require.Error(t, err)
	assert.Contains(t, Message(err), "colour must be one of")

	err = binding.Validator.ValidateStruct(&paintRequest{Name: "wall", Colour: "red", Accent: &green})
	require.Error(t, err)
	assert.Contains(t, Message(err), "accent must be one of")
}

func TestMessageListsEveryField(t *testing.T) {
	Register()

	err := binding.Validator.ValidateStruct(&paintRequest{})
	require.Error(t, err)
	assert.Contains(t, Message(err), "name is required")
	assert.Contains(t, Message(err), "colour is required")
}
