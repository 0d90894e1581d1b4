package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Output = &buf

	logger := New(cfg)
	logger.Debug("hidden")
	logger.Warn("shown", "path", "build.log")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "path=build.log")
}

func TestNewVerboseJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := VerboseConfig()
	cfg.Output = &buf
	cfg.Format = FormatJSON

	New(cfg).Debug("attempt", "encoding", "utf-8")

	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.Contains(t, buf.String(), `"encoding":"utf-8"`)
}
