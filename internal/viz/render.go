package viz

import (
	"math"

	"github.com/san-kum/chargefield/internal/electro"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera orients the scene before the orthographic projection onto the
// xy-plane. Angles are radians, applied about x, then y, then z.
type Camera struct {
	RotX, RotY, RotZ float64
}

// Oblique is a three-quarter view that keeps all three axes visible.
var Oblique = Camera{RotX: -0.5, RotY: 0.6}

func (c Camera) Rotate(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// view maps world points into canvas sub-pixels so the sphere around the
// bounds fits the canvas. Braille dots are close to square, so one scale
// serves both axes.
type view struct {
	cam    Camera
	center r3.Vec
	scale  float64
	w, h   int
}

func newView(cam Camera, b electro.Bounds, c *Canvas) view {
	w, h := c.Width*2, c.Height*4
	radius := math.Max(b.Diagonal()/2, 1e-12)
	scale := 0.5 * float64(min(w, h)) / radius
	return view{cam: cam, center: cam.Rotate(b.Center()), scale: scale, w: w, h: h}
}

func (v view) project(p r3.Vec) (int, int) {
	q := r3.Sub(v.cam.Rotate(p), v.center)
	x := int(math.Round(float64(v.w)/2 + q.X*v.scale))
	y := int(math.Round(float64(v.h)/2 - q.Y*v.scale))
	return x, y
}

// FieldLines draws the lines and charges on a cols x rows canvas. Positive
// charges are marked "+" and negative ones "-".
func FieldLines(lines []electro.FieldLine, charges []electro.Charge, b electro.Bounds, cam Camera, cols, rows int) string {
	c := NewCanvas(cols, rows)
	v := newView(cam, b, c)

	for _, l := range lines {
		for k := 1; k < len(l.Points); k++ {
			x0, y0 := v.project(l.Points[k-1])
			x1, y1 := v.project(l.Points[k])
			c.DrawLine(x0, y0, x1, y1)
		}
	}
	for _, ch := range charges {
		x, y := v.project(ch.Position)
		if ch.Q > 0 {
			c.Mark(x, y, PositiveCharge.Render("+"))
		} else {
			c.Mark(x, y, NegativeCharge.Render("-"))
		}
	}
	return c.String()
}
