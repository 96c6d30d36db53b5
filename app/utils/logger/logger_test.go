package logger

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "valid info level", level: "info"},
		{name: "valid debug level", level: "debug"},
		{name: "valid warn level", level: "warn"},
		{name: "valid error level", level: "error"},
		{name: "invalid level", level: "invalid", wantErr: true},
		{name: "empty level", level: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, logger)
			}
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter("info", &buf)
	require.NoError(t, err)

	logger.Info("hello", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "hello")
	assert.Contains(t, output, "key=value")
	assert.Contains(t, output, "service=guestmenu-auth")
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter("warn", &buf)
	require.NoError(t, err)

	logger.Info("suppressed")
	logger.Warn("surfaced")

	output := buf.String()
	assert.NotContains(t, output, "suppressed")
	assert.Contains(t, output, "surfaced")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	base, err := NewWithWriter("info", &buf)
	require.NoError(t, err)

	WithComponent(base, "session_manager").Info("started")
	assert.Contains(t, buf.String(), "component=session_manager")
}

func TestWithIdentityAndTenant(t *testing.T) {
	var buf bytes.Buffer
	base, err := NewWithWriter("info", &buf)
	require.NoError(t, err)

	WithIdentity(base, "id-123").Info("one")
	WithTenantLabel(base, "acme").Info("two")

	output := buf.String()
	assert.Contains(t, output, "identity_id=id-123")
	assert.Contains(t, output, "tenant_label=acme")
}

func TestLogDuration(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter("info", &buf)
	require.NoError(t, err)

	LogDuration(logger, time.Now().Add(-50*time.Millisecond), "resolve_tenant", "label", "acme")

	output := buf.String()
	assert.Contains(t, output, "operation=resolve_tenant")
	assert.Contains(t, output, "duration_ms=")
	assert.Contains(t, output, "label=acme")
}

func TestParseLogLevel(t *testing.T) {
	level, err := parseLogLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = parseLogLevel("loud")
	assert.Error(t, err)
}
