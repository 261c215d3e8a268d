package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("debug", "", &buf)

	log.WithField("incident_id", "42").Debug("Route ready")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Route ready", entry["msg"])
	assert.Equal(t, "42", entry["incident_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", "TEXT", &buf)

	log.Info("Console created")

	assert.Contains(t, buf.String(), `msg="Console created"`)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	log := NewWithOutput("verbose", FormatJSON, &bytes.Buffer{})

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
