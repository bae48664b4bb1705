package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// uiMode selects the Bubble Tea progress view for generate and check.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(cmdName, value string) (uiMode, error) {
	switch mode := uiMode(strings.TrimSpace(strings.ToLower(value))); mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	default:
		return "", fmt.Errorf("%s: invalid --ui value %q (expected auto|on|off)", cmdName, value)
	}
}

// shouldUseTUI resolves auto against out: the view is drawn only on a
// terminal, never into a pipe or a buffer.
func shouldUseTUI(mode uiMode, out io.Writer) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	f, ok := out.(*os.File)
	return ok && isTerminal(f)
}
