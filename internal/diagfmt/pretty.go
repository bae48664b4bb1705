package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"declgen/internal/diag"
)

// Pretty печатает диагностики построчно:
//
//	<SEV>[CODE] <path>: <message>
//	  = note: <path>: <message>
//
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	var errs, warns int
	for _, d := range bag.Items() {
		switch {
		case d.Severity >= diag.SevError:
			errs++
		case d.Severity == diag.SevWarning:
			warns++
		}
		line := p.severity(d.Severity).Sprint(d.Severity.String()) +
			p.code.Sprintf("[%s]", d.Code)
		if d.Path != "" {
			line += " " + p.path.Sprint(d.Path) + ":"
		}
		line += " " + d.Message
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			note := "  = " + p.note.Sprint("note") + ": "
			if n.Path != "" {
				note += p.path.Sprint(n.Path) + ": "
			}
			if _, err := fmt.Fprintln(w, note+n.Msg); err != nil {
				return err
			}
		}
	}
	if opts.Summary {
		_, err := fmt.Fprintf(w, "%s, %s\n",
			plural(warns, "warning"), plural(errs, "error"))
		return err
	}
	return nil
}

type palette struct {
	err, warn, info, code, path, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		code: color.New(color.Faint),
		path: color.New(color.Bold),
		note: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch {
	case s >= diag.SevError:
		return p.err
	case s == diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
