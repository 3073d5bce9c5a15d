package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVsRedactsCredentials(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	log.Info("connecting", "jwt_secret", "hunter2", "addr", "localhost:6379", "postgres_dsn", "postgres://u:p@h/db")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "[REDACTED]", fields["jwt_secret"])
	require.Equal(t, "[REDACTED]", fields["postgres_dsn"])
	require.Equal(t, "localhost:6379", fields["addr"])
}

func TestWithKeepsContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := (&Logger{SugaredLogger: zap.New(core).Sugar()}).With("component", "flusher")

	log.Warn("flush failed")
	require.Equal(t, "flusher", logs.All()[0].ContextMap()["component"])
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		log, err := New(mode)
		require.NoError(t, err)
		require.NotNil(t, log.SugaredLogger)
	}
	NewNop().Info("discarded")
}
