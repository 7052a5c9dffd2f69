package logging

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHookedAdapter(t *testing.T) (Logger, *test.Hook) {
	t.Helper()
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	return NewLogrusAdapterFromLogger(base), hook
}

func TestAdapterEmitsFields(t *testing.T) {
	logger, hook := newHookedAdapter(t)

	logger.Info("Extraction complete", Field{Key: "count", Value: 3})

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "Extraction complete", entry.Message)
	assert.Equal(t, 3, entry.Data["count"])
}

func TestAdapterWithFieldChains(t *testing.T) {
	logger, hook := newHookedAdapter(t)

	logger.WithField("component", "categorizer").
		WithFields(Field{Key: "keyword", Value: "coffee"}).
		Debug("Matched")

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, "categorizer", entry.Data["component"])
	assert.Equal(t, "coffee", entry.Data["keyword"])
}

func TestAdapterWithError(t *testing.T) {
	logger, hook := newHookedAdapter(t)

	cause := errors.New("file missing")
	logger.WithError(cause).Warn("Skipping")

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, cause, hook.LastEntry().Data[logrus.ErrorKey])
}

func TestNewLogrusAdapterFromLoggerNilFallback(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	require.NotNil(t, logger)
	logger.Info("still usable")
}

func TestNewLogrusAdapterUnknownLevel(t *testing.T) {
	// An unparseable level must not panic; the adapter falls back to info.
	logger := NewLogrusAdapter("extremely-verbose", "json")
	require.NotNil(t, logger)
	logger.Info("still usable")
}
