package diag

// Severity orders diagnostics; lint findings are never above SevWarning.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String returns the lowercase label used in CLI and JSON output.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// Fails reports whether a diagnostic of this severity should fail a check run.
// Warnings fail only when warningsAsErrors is set.
func (s Severity) Fails(warningsAsErrors bool) bool {
	if warningsAsErrors {
		return s >= SevWarning
	}
	return s >= SevError
}
