package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		value string
		want  uiMode
	}{
		{"", uiModeAuto},
		{"auto", uiModeAuto},
		{" ON ", uiModeOn},
		{"off", uiModeOff},
	}
	for _, tt := range tests {
		got, err := readUIMode("generate", tt.value)
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, got, tt.value)
	}

	_, err := readUIMode("check", "yes")
	assert.EqualError(t, err, `check: invalid --ui value "yes" (expected auto|on|off)`)
}

func TestShouldUseTUI(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, shouldUseTUI(uiModeAuto, &buf), "a buffer is never a terminal")
	assert.True(t, shouldUseTUI(uiModeOn, &buf))
	assert.False(t, shouldUseTUI(uiModeOff, &buf))
}
