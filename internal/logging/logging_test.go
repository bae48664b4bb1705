package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{-1, zerolog.WarnLevel},
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{5, zerolog.TraceLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestSetupWritesConsoleAndFile(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	origLogger, origLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.SetGlobalLevel(origLevel)
	})

	var console bytes.Buffer
	closeLog := Setup(1, &console, true)
	pl := Logger("pipeline")
	pl.Info().Msg("documents loaded")
	pl.Debug().Msg("hidden at info level")
	closeLog()

	out := console.String()
	assert.Contains(t, out, "documents loaded")
	assert.Contains(t, out, "component=pipeline")
	assert.NotContains(t, out, "hidden at info level")

	data, err := os.ReadFile(filepath.Join(state, "declgen", "declgen.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"pipeline"`)
}
