package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"mannadome_backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, config.LoggingConfig{Level: "warn", Service: "mannadome-api"})

	log.Info("dropped")
	log.Warn("kept", "email", "a@x.com")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "mannadome-api", record["service"])
	assert.Equal(t, "a@x.com", record["email"])
}
