package render

import (
	"fmt"
	"strings"
)

// Dialect selects the output syntax.
type Dialect string

const (
	RBI Dialect = "rbi"
	RBS Dialect = "rbs"
)

// Dialects lists every supported dialect in a stable order.
func Dialects() []Dialect {
	return []Dialect{RBI, RBS}
}

func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case RBI, RBS:
		return d, nil
	default:
		return "", fmt.Errorf("unknown dialect %q (want rbi or rbs)", s)
	}
}

// Ext is the file extension used for the dialect, without the dot.
func (d Dialect) Ext() string {
	return string(d)
}

type Options struct {
	// TabSize is the number of spaces per indentation level.
	TabSize int
	// BreakParams is the largest parameter count rendered inline. 0 wraps
	// every method that has parameters, a negative value selects the default.
	BreakParams int
	// SortNamespaces sorts mixins by target and nested namespaces by name.
	SortNamespaces bool
	// MaxLineWidth also forces wrapping when an inline signature would be
	// wider than this many columns. 0 disables the check.
	MaxLineWidth int
	Dialect      Dialect
	// Strictness goes into the RBI "# typed:" banner.
	Strictness string
}

const defaultBreakParams = 4

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{BreakParams: defaultBreakParams}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.TabSize <= 0 {
		o.TabSize = 2
	}
	if o.BreakParams < 0 {
		o.BreakParams = defaultBreakParams
	}
	if o.MaxLineWidth < 0 {
		o.MaxLineWidth = 0
	}
	if o.Dialect == "" {
		o.Dialect = RBI
	}
	if o.Strictness == "" {
		o.Strictness = "strong"
	}
	return o
}

// Fingerprint identifies everything in o that changes the rendered text.
func (o Options) Fingerprint() string {
	o = o.withDefaults()
	return fmt.Sprintf("%s/tab=%d/break=%d/sort=%t/width=%d/typed=%s",
		o.Dialect, o.TabSize, o.BreakParams, o.SortNamespaces, o.MaxLineWidth, o.Strictness)
}
