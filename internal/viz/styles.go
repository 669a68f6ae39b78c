package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/chargefield/internal/electro"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	PositiveCharge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
	NegativeCharge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4488ff"))

	Good = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	Warn = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	Bad  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

// Metric renders "label: value" with the value formatted by %g and unit
// appended.
func Metric(label string, value float64, unit string) string {
	v := fmt.Sprintf("%.6g", value)
	if unit != "" {
		v += " " + unit
	}
	return MetricLabel.Render(label+":") + " " + MetricValue.Render(v)
}

// Reason colors a termination reason. Absorbed and out-of-bounds lines are
// the normal outcomes.
func Reason(t electro.Termination) string {
	switch t {
	case electro.Absorbed, electro.OutOfBounds:
		return Good.Render(t.String())
	case electro.MaxSteps:
		return Warn.Render(t.String())
	default:
		return Bad.Render(t.String())
	}
}

func Status(s electro.Status) string {
	if s == electro.Converged {
		return Good.Render(s.String())
	}
	return Warn.Render(s.String())
}

// Separator is a muted rule of the given width.
func Separator(width int) string {
	if width < 7 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}

// Sparkline renders values as a row of block characters, sampled down to
// width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := max(len(values)/width, 1)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / span * float64(len(chars)-1))
		b.WriteRune(chars[min(max(idx, 0), len(chars)-1)])
	}
	return b.String()
}
