package viz

import (
	"github.com/guptarohit/asciigraph"
)

// Profile plots values as an asciigraph line chart. Width and height are in
// terminal cells; a zero width lets asciigraph use one column per value.
func Profile(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return Subtle.Render("(no samples)")
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Caption(caption),
		asciigraph.Precision(3),
	}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	return asciigraph.Plot(values, opts...)
}
