package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hashed)

	assert.NoError(t, h.Compare(hashed, "correct horse"))
	assert.ErrorIs(t, h.Compare(hashed, "wrong horse"), ErrPasswordMismatch)
}

func TestHashRejectsShortPasswords(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestInvalidCostFallsBackToDefault(t *testing.T) {
	h := NewBcryptHasher(1000)

	hashed, err := h.Hash("long enough password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
