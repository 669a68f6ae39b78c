package electro

import (
	"encoding/json"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN(), 0}, false},
		{"with +Inf", State{math.Inf(1), 0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.state.IsValid())
		})
	}
}

func TestState_VecRoundTrip(t *testing.T) {
	v := r3.Vec{X: 1, Y: -2, Z: 3}
	s := StateOf(v)
	assert.Equal(t, v, s.Vec())
	assert.InDelta(t, math.Sqrt(14), s.Norm(), 1e-12)
	assert.Equal(t, State{0, 0, 0}, s.Sub(s))
}

func TestBounds(t *testing.T) {
	b := Cube(2)
	assert.True(t, b.Valid())
	assert.True(t, b.Contains(r3.Vec{X: 2, Y: -2, Z: 0}))
	assert.False(t, b.Contains(r3.Vec{X: 2.001}))
	assert.Equal(t, r3.Vec{}, b.Center())
	assert.InDelta(t, math.Sqrt(48), b.Diagonal(), 1e-12)

	padded := b.Pad(1)
	assert.Equal(t, r3.Vec{X: 3, Y: 3, Z: 3}, padded.Max)

	bad := Bounds{Min: r3.Vec{X: 1}, Max: r3.Vec{X: -1}}
	assert.False(t, bad.Valid())
	assert.False(t, Bounds{Max: r3.Vec{X: math.Inf(1)}}.Valid())
}

func TestBounds_Clamp(t *testing.T) {
	b := Cube(2)
	assert.Equal(t, r3.Vec{X: 2, Y: 1, Z: -2}, b.Clamp(r3.Vec{X: 30, Y: 1, Z: -1e4}))
	inside := r3.Vec{X: 0.5, Y: -1.5}
	assert.Equal(t, inside, b.Clamp(inside))
	assert.True(t, b.Contains(b.Clamp(r3.Vec{X: -1e9, Y: 1e9, Z: 3})))
}

func TestBounds_Grid(t *testing.T) {
	b := Cube(1)
	nodes := b.Grid(3)
	assert.Len(t, nodes, 27)
	assert.Equal(t, r3.Vec{X: -1, Y: -1, Z: -1}, nodes[0])
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, nodes[26])
	assert.InDelta(t, 1.0, b.CellVolume(3), 1e-12)

	assert.Equal(t, []float64{0.5}, Lattice(0, 1, 1))
	assert.Nil(t, Lattice(0, 1, 0))
}

func TestParallelFor(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		var hits int64
		seen := make([]int32, n)
		ParallelFor(n, 8, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
				atomic.AddInt64(&hits, 1)
			}
		})
		assert.Equal(t, int64(n), hits)
		for i := range seen {
			assert.Equal(t, int32(1), seen[i], "index %d visited once", i)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "ABSORBED", Absorbed.String())
	assert.Equal(t, "OUT_OF_BOUNDS", OutOfBounds.String())
	assert.Equal(t, "MAX_STEPS", MaxSteps.String())
	assert.Equal(t, "STAGNATION", Stagnation.String())
	assert.Equal(t, "CONVERGED", Converged.String())
	assert.Equal(t, "NOT_CONVERGED", NotConverged.String())
	assert.Equal(t, "backward", Backward.String())
}

func TestEnumText(t *testing.T) {
	b, err := json.Marshal(struct {
		D Direction
		R Termination
		S Status
	}{Backward, OutOfBounds, NotConverged})
	require.NoError(t, err)
	assert.JSONEq(t, `{"D":"backward","R":"OUT_OF_BOUNDS","S":"NOT_CONVERGED"}`, string(b))

	var got struct {
		D Direction
		R Termination
		S Status
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, Backward, got.D)
	assert.Equal(t, OutOfBounds, got.R)
	assert.Equal(t, NotConverged, got.S)

	var term Termination
	assert.ErrorIs(t, term.UnmarshalText([]byte("LOST")), ErrInvalidParams)
}
