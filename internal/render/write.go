package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Writer collects output lines and owns the indentation.
type Writer struct {
	lines       []string
	indentLevel int
	unit        string
}

func NewWriter(opt Options) *Writer {
	opt = opt.withDefaults()
	return &Writer{unit: strings.Repeat(" ", opt.TabSize)}
}

// Lines returns the accumulated output.
func (w *Writer) Lines() []string {
	return w.lines
}

// Line writes s at the current indentation. An empty s gives a blank line
// without indentation.
func (w *Writer) Line(s string) {
	if s == "" {
		w.lines = append(w.lines, "")
		return
	}
	w.lines = append(w.lines, strings.Repeat(w.unit, w.indentLevel)+s)
}

// WriteLines writes every element of ss with Line.
func (w *Writer) WriteLines(ss []string) {
	for _, s := range ss {
		w.Line(s)
	}
}

// Blank writes an empty line unless the output is empty or already ends with one.
func (w *Writer) Blank() {
	if len(w.lines) == 0 || w.lines[len(w.lines)-1] == "" {
		return
	}
	w.lines = append(w.lines, "")
}

func (w *Writer) IndentPush() {
	w.indentLevel++
}

func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// Width is the display width of s at the current indentation.
func (w *Writer) Width(s string) int {
	return runewidth.StringWidth(strings.Repeat(w.unit, w.indentLevel) + s)
}

// nest indents every non-empty line by one unit.
func nest(unit string, lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if l != "" {
			out[i] = unit + l
		}
	}
	return out
}
