package tracer

import (
	"math"
	"math/rand"

	"github.com/san-kum/chargefield/internal/electro"
	"gonum.org/v1/gonum/spatial/r3"
)

// Seed is a starting point together with the charge it belongs to and the
// direction to trace from it.
type Seed struct {
	Point     r3.Vec
	Origin    int
	Direction electro.Direction
}

var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// SphereSeeds places perCharge seeds on a Fibonacci sphere of the given
// radius around every positive charge, traced forward. When the set has no
// positive charge, the negative charges are seeded and traced backward.
// Seeds that land on another charge are dropped.
func SphereSeeds(cs *electro.ChargeSet, perCharge int, radius float64) []Seed {
	if perCharge <= 0 || !(radius > 0) {
		return nil
	}

	dir := electro.Forward
	wantSign := 1.0
	hasPositive := false
	for i := 0; i < cs.Len(); i++ {
		if cs.At(i).Q > 0 {
			hasPositive = true
			break
		}
	}
	if !hasPositive {
		dir, wantSign = electro.Backward, -1.0
	}

	seeds := make([]Seed, 0, perCharge*cs.Len())
	for i := 0; i < cs.Len(); i++ {
		c := cs.At(i)
		if c.Sign() != wantSign {
			continue
		}
		for j := 0; j < perCharge; j++ {
			p := r3.Add(c.Position, r3.Scale(radius, fibonacci(j, perCharge)))
			if _, d := cs.Nearest(p); d < electro.SingularRadius {
				continue
			}
			seeds = append(seeds, Seed{Point: p, Origin: c.ID, Direction: dir})
		}
	}
	return seeds
}

// fibonacci returns the i-th of n near-uniform unit vectors.
func fibonacci(i, n int) r3.Vec {
	y := 1 - 2*(float64(i)+0.5)/float64(n)
	r := math.Sqrt(1 - y*y)
	phi := float64(i) * goldenAngle
	return r3.Vec{X: r * math.Cos(phi), Y: y, Z: r * math.Sin(phi)}
}

// RandomSeeds draws n free seeds uniformly inside b, traced forward.
func RandomSeeds(rng *rand.Rand, n int, b electro.Bounds) []Seed {
	seeds := make([]Seed, n)
	size := b.Size()
	for i := range seeds {
		seeds[i] = Seed{
			Point: r3.Vec{
				X: b.Min.X + rng.Float64()*size.X,
				Y: b.Min.Y + rng.Float64()*size.Y,
				Z: b.Min.Z + rng.Float64()*size.Z,
			},
			Origin:    -1,
			Direction: electro.Forward,
		}
	}
	return seeds
}
