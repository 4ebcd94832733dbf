package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "debug", Format: "json", Output: &buf})

	l.WithFields(map[string]interface{}{"vet_id": 7}).
		Warn("appointment conflict", map[string]interface{}{"animal_id": 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "appointment conflict", entry["message"])
	assert.EqualValues(t, 7, entry["vet_id"])
	assert.EqualValues(t, 3, entry["animal_id"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "error", Format: "json", Output: &buf})

	l.Info("ignored", nil)
	assert.Zero(t, buf.Len())

	l.Error(errors.New("boom"), "failed", nil)
	assert.Contains(t, buf.String(), "boom")
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "loud", Format: "json", Output: &buf})

	l.Debug("hidden", nil)
	l.Info("shown", nil)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
