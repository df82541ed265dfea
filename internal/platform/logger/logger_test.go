package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs_RedactsCredentials(t *testing.T) {
	out := sanitizeKVs([]interface{}{"db_dsn", "postgres://u:p@h/db", "project_id", 7, "dangling"})
	assert.Equal(t, []interface{}{"db_dsn", "[REDACTED]", "project_id", 7, "dangling"}, out)
}

func TestLogger_WritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With("component", "test")

	log.Info("classification created", "id", int64(5), "api_token", "abc")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "classification created", entries[0].Message)
	assert.Equal(t, "test", fields["component"])
	assert.Equal(t, int64(5), fields["id"])
	assert.Equal(t, "[REDACTED]", fields["api_token"])
}

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"development", "production"} {
		log, err := New(mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, log.SugaredLogger)
	}
}
