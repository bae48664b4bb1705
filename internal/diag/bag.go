package diag

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"
)

type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(maxItems int) *Bag {
	limit, err := safecast.Conv[uint16](maxItems)
	if err != nil {
		limit = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, max(0, min(maxItems, 64))),
		max:   limit,
	}
}

// Add appends d unless the bag is full.
// Returns false when the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors reports whether any diagnostic has Severity >= SevError.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic has Severity >= SevWarning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// Fails reports whether any diagnostic fails a check run, see Severity.Fails.
func (b *Bag) Fails(warningsAsErrors bool) bool {
	for i := range b.items {
		if b.items[i].Severity.Fails(warningsAsErrors) {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the backing slice. Do not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends the diagnostics of other, growing the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if newTotal > int(b.max) {
		if limit, err := safecast.Conv[uint16](newTotal); err == nil {
			b.max = limit
		} else {
			b.max = ^uint16(0)
		}
	}
	b.items = append(b.items, other.items...)
	if len(b.items) > int(b.max) {
		b.items = b.items[:b.max]
	}
}

// Sort orders diagnostics by path, severity (desc), code, message so the
// CLI output is stable.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})
}

// Dedup drops repeated Code+Path+Message entries, keeping the first.
func (b *Bag) Dedup() {
	seen := make(map[string]bool, len(b.items))
	items := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s:%s", d.Code, d.Path, d.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, d)
	}
	b.items = items
}

// Format renders one line per diagnostic (plus indented notes).
func (b *Bag) Format() string {
	var sb strings.Builder
	for _, d := range b.items {
		sb.WriteString(FormatDiagnostic(d))
		sb.WriteByte('\n')
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "  note: %s: %s\n", n.Path, n.Msg)
		}
	}
	return sb.String()
}

// FormatDiagnostic renders d as "severity CODE path: message".
func FormatDiagnostic(d Diagnostic) string {
	sev := d.Severity.String()
	if d.Path == "" {
		return fmt.Sprintf("%s %s %s", sev, d.Code, d.Message)
	}
	return fmt.Sprintf("%s %s %s: %s", sev, d.Code, d.Path, d.Message)
}
