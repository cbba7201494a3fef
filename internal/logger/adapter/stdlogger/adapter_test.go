package stdlogger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fabricstock/fabricstock/internal/logger/adapter/stdlogger"
)

// capture points the global logger at a buffer for the duration of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	old := log.Logger
	oldLevel := zerolog.GlobalLevel()

	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	t.Cleanup(func() {
		log.Logger = old
		zerolog.SetGlobalLevel(oldLevel)
	})

	return &buf
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		out = append(out, e)
	}

	return out
}

func TestLevels(t *testing.T) {
	buf := capture(t)

	l := stdlogger.New()
	l.Infof("%s ready", "db")
	l.Warningf("slow query %dms", 250)
	l.Errorf("failed: %v", "boom")
	l.Debugf("hidden at info level")

	got := entries(t, buf)
	require.Len(t, got, 3)

	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, "db ready", got[0]["message"])
	assert.Equal(t, "warn", got[1]["level"])
	assert.Equal(t, "slow query 250ms", got[1]["message"])
	assert.Equal(t, "error", got[2]["level"])
}

func TestPrintfLevel(t *testing.T) {
	buf := capture(t)

	var w gormlogger.Writer = stdlogger.NewWithLevel(zerolog.WarnLevel)
	w.Printf("record %d not found", 3)

	stdlogger.NewWithLevel(zerolog.DebugLevel).Printf("dropped")
	stdlogger.New().Printf("plain")

	got := entries(t, buf)
	require.Len(t, got, 2)
	assert.Equal(t, "warn", got[0]["level"])
	assert.Equal(t, "record 3 not found", got[0]["message"])
	assert.Equal(t, "info", got[1]["level"])
}
