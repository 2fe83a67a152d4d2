package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("RELAY_DISPATCH_POLICY", "")
	t.Setenv("RELAY_STATUS_DEBOUNCE", "")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, PolicyIsolated, cfg.DispatchPolicy)
	assert.Equal(t, 5*time.Second, cfg.StatusDebounce)
}

func TestNewFromEnvironment(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RELAY_DISPATCH_POLICY", PolicyFailFast)
	t.Setenv("RELAY_STATUS_DEBOUNCE", "250ms")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, PolicyFailFast, cfg.DispatchPolicy)
	assert.Equal(t, 250*time.Millisecond, cfg.StatusDebounce)
}

func TestNewRejectsInvalidValues(t *testing.T) {
	t.Setenv("RELAY_DISPATCH_POLICY", "sometimes")

	_, err := New()
	require.Error(t, err)
}

func TestNewRejectsBadDuration(t *testing.T) {
	t.Setenv("RELAY_STATUS_DEBOUNCE", "soon")

	_, err := New()
	require.Error(t, err)
}
