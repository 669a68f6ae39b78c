package electro

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds is an axis-aligned box, inclusive on every face.
type Bounds struct {
	Min, Max r3.Vec
}

// Cube returns the box [-half, half]³.
func Cube(half float64) Bounds {
	return Bounds{
		Min: r3.Vec{X: -half, Y: -half, Z: -half},
		Max: r3.Vec{X: half, Y: half, Z: half},
	}
}

// Valid reports whether the box is finite and has Min <= Max on every axis.
func (b Bounds) Valid() bool {
	return IsFinite(b.Min) && IsFinite(b.Max) &&
		b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

func (b Bounds) Contains(p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Clamp returns the point of the box nearest to p.
func (b Bounds) Clamp(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: math.Min(math.Max(p.X, b.Min.X), b.Max.X),
		Y: math.Min(math.Max(p.Y, b.Min.Y), b.Max.Y),
		Z: math.Min(math.Max(p.Z, b.Min.Z), b.Max.Z),
	}
}

func (b Bounds) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

func (b Bounds) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Pad grows the box by margin on every side.
func (b Bounds) Pad(margin float64) Bounds {
	m := r3.Vec{X: margin, Y: margin, Z: margin}
	return Bounds{Min: r3.Sub(b.Min, m), Max: r3.Add(b.Max, m)}
}

// Diagonal is the length of the box diagonal.
func (b Bounds) Diagonal() float64 {
	return r3.Norm(b.Size())
}

// Lattice returns the n evenly spaced coordinates from lo to hi inclusive.
// n == 1 yields the midpoint.
func Lattice(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{0.5 * (lo + hi)}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Grid returns the n×n×n lattice nodes of the box in x-major order.
func (b Bounds) Grid(n int) []r3.Vec {
	xs := Lattice(b.Min.X, b.Max.X, n)
	ys := Lattice(b.Min.Y, b.Max.Y, n)
	zs := Lattice(b.Min.Z, b.Max.Z, n)
	out := make([]r3.Vec, 0, len(xs)*len(ys)*len(zs))
	for _, x := range xs {
		for _, y := range ys {
			for _, z := range zs {
				out = append(out, r3.Vec{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

// CellVolume is the volume of one lattice cell for an n-node grid.
func (b Bounds) CellVolume(n int) float64 {
	if n < 2 {
		s := b.Size()
		return s.X * s.Y * s.Z
	}
	s := r3.Scale(1/float64(n-1), b.Size())
	return math.Abs(s.X * s.Y * s.Z)
}
