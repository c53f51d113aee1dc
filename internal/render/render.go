// Package render prints generation results and the history to a terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/eduardolat/pwforge/internal/session"
	"github.com/eduardolat/pwforge/internal/strength"
)

const (
	// BarWidth is the number of cells in the strength bar
	BarWidth = 20

	filledCell = "█"
	emptyCell  = "░"
)

// Printer writes human-readable output
type Printer struct {
	w      io.Writer
	colors map[string]*color.Color
	dim    *color.Color
	warn   *color.Color
}

// New creates a Printer. Escape codes are written exactly when
// colorEnabled is true, whatever w is; callers decide with IsTerminal.
func New(w io.Writer, colorEnabled bool) *Printer {
	p := &Printer{
		w: w,
		// Terminals have no orange; bright yellow reads closest
		colors: map[string]*color.Color{
			"red":                 color.New(color.FgRed, color.Bold),
			"orange":              color.New(color.FgHiYellow),
			"yellow":              color.New(color.FgYellow),
			"green":               color.New(color.FgGreen, color.Bold),
			strength.DefaultColor: color.New(color.FgHiBlack),
		},
		dim:  color.New(color.FgHiBlack),
		warn: color.New(color.FgYellow),
	}

	// Per-color settings override color.NoColor, which only looks at os.Stdout
	for _, c := range append([]*color.Color{p.dim, p.warn}, colorsOf(p.colors)...) {
		if colorEnabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// IsTerminal reports whether w is a terminal that should get colors.
// NO_COLOR and TERM=dumb turn colors off everywhere.
func IsTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func colorsOf(m map[string]*color.Color) []*color.Color {
	colors := make([]*color.Color, 0, len(m))
	for _, c := range m {
		colors = append(colors, c)
	}
	return colors
}

// Result prints a password, its strength bar and the optional estimate
func (p *Printer) Result(r *session.Result) {
	if r.Warning != "" {
		fmt.Fprintln(p.w, p.warn.Sprint("warning: "+r.Warning))
		fmt.Fprintln(p.w, p.dim.Sprint("strength "+Bar(r.Meter)+" "+Label(r.Meter)))
		return
	}

	fmt.Fprintln(p.w, r.Password)
	fmt.Fprintln(p.w, "strength "+p.paint(r.Meter.Color, Bar(r.Meter))+" "+Label(r.Meter))

	if r.Estimate != nil {
		line := fmt.Sprintf("estimate %.1f bits, offline crack time %s", r.Estimate.Entropy, r.Estimate.CrackTime)
		if r.Estimate.Truncated {
			line += " (first 50 characters)"
		}
		fmt.Fprintln(p.w, p.dim.Sprint(line))
	}
}

// Passwords prints bare passwords, one per line
func (p *Printer) Passwords(results []*session.Result) {
	for _, r := range results {
		if r.Password != "" {
			fmt.Fprintln(p.w, r.Password)
		}
	}
}

// History prints the history as a numbered list, most recent first
func (p *Printer) History(entries []string) {
	if len(entries) == 0 {
		fmt.Fprintln(p.w, p.dim.Sprint("History is empty"))
		return
	}

	fmt.Fprintf(p.w, "History (%d):\n", len(entries))
	for i, entry := range entries {
		meter := strength.IndicatorFor(entry)
		fmt.Fprintf(p.w, "%4d  %s  %s\n", i+1, entry, p.paint(meter.Color, fmt.Sprintf("%d/%d", meter.Score, strength.MaxScore)))
	}
}

func (p *Printer) paint(name, s string) string {
	c, ok := p.colors[name]
	if !ok {
		return s
	}
	return c.Sprint(s)
}

// Bar draws the meter width as BarWidth cells
func Bar(m strength.Meter) string {
	filled := m.WidthPercent * BarWidth / 100
	return "[" + strings.Repeat(filledCell, filled) + strings.Repeat(emptyCell, BarWidth-filled) + "]"
}

// Label describes the score and mood, e.g. "3/4 :|"
func Label(m strength.Meter) string {
	label := fmt.Sprintf("%d/%d %s", m.Score, strength.MaxScore, Face(m.Mood))
	if m.Celebrate {
		label += " strong!"
	}
	return label
}

// Face returns the text face for a mood
func Face(mood strength.Mood) string {
	switch mood {
	case strength.Happy:
		return ":D"
	case strength.Neutral:
		return ":|"
	default:
		return ":("
	}
}
