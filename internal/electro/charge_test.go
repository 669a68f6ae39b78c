package electro

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewChargeSet(t *testing.T) {
	cs, err := NewChargeSet([]ChargeSpec{
		{X: -1, Q: 2e-6},
		{X: 1, Y: 2, Z: -3, Q: -1e-6},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, cs.Len())
	assert.Equal(t, 0, cs.At(0).ID)
	assert.Equal(t, 1, cs.At(1).ID)
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: -3}, cs.At(1).Position)
	assert.Equal(t, -1.0, cs.At(1).Sign())
	assert.InDelta(t, 1e-6, cs.TotalCharge(), 1e-18)
}

func TestNewChargeSet_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		specs []ChargeSpec
	}{
		{"empty", nil},
		{"zero magnitude", []ChargeSpec{{Q: 0}}},
		{"NaN magnitude", []ChargeSpec{{Q: math.NaN()}}},
		{"Inf magnitude", []ChargeSpec{{Q: math.Inf(1)}}},
		{"NaN position", []ChargeSpec{{X: math.NaN(), Q: 1}}},
		{"Inf position", []ChargeSpec{{Z: math.Inf(-1), Q: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := NewChargeSet(tt.specs)
			assert.Nil(t, cs)
			assert.ErrorIs(t, err, ErrInvalidCharge)

			var ice *InvalidChargeError
			assert.True(t, errors.As(err, &ice))
		})
	}
}

func TestNewChargeSet_Coincident(t *testing.T) {
	_, err := NewChargeSet([]ChargeSpec{
		{X: 0.5, Y: 0.5, Q: 1},
		{X: 1, Q: -1},
		{X: 0.5, Y: 0.5, Q: 3},
	})
	require.Error(t, err)

	var cce *CoincidentChargesError
	require.True(t, errors.As(err, &cce))
	assert.Equal(t, 0, cce.I)
	assert.Equal(t, 2, cce.J)
	assert.ErrorIs(t, err, ErrCoincidentCharges)
	assert.ErrorIs(t, err, ErrInvalidCharge)
}

func TestChargeSet_Bounds(t *testing.T) {
	cs := MustChargeSet(
		ChargeSpec{X: -1, Y: 2, Z: 0, Q: 1},
		ChargeSpec{X: 3, Y: -2, Z: 1, Q: 1},
		ChargeSpec{X: 0, Y: 0, Z: -4, Q: -1},
	)

	b := cs.Bounds()
	assert.Equal(t, r3.Vec{X: -1, Y: -2, Z: -4}, b.Min)
	assert.Equal(t, r3.Vec{X: 3, Y: 2, Z: 1}, b.Max)
	for _, p := range cs.Positions() {
		assert.True(t, b.Contains(p))
	}
}

func TestChargeSet_Without(t *testing.T) {
	cs := MustChargeSet(
		ChargeSpec{X: -1, Q: 1},
		ChargeSpec{X: 0, Q: 2},
		ChargeSpec{X: 1, Q: 3},
	)

	rest, err := cs.Without(1)
	require.NoError(t, err)
	assert.Equal(t, 2, rest.Len())
	assert.Equal(t, 0, rest.At(0).ID)
	assert.Equal(t, 2, rest.At(1).ID)
	assert.Equal(t, 3, cs.Len(), "original set must not change")
	assert.Equal(t, 1, rest.Index(2))
	assert.Equal(t, -1, rest.Index(1))

	again, err := rest.Without(1)
	require.NoError(t, err)
	assert.Equal(t, 0, again.At(0).ID)

	_, err = cs.Without(5)
	assert.ErrorIs(t, err, ErrChargeIndex)

	single := MustChargeSet(ChargeSpec{Q: 1})
	_, err = single.Without(0)
	assert.ErrorIs(t, err, ErrTooFewCharges)
}

func TestChargeSet_AllIsCopy(t *testing.T) {
	cs := MustChargeSet(ChargeSpec{Q: 1})
	all := cs.All()
	all[0].Q = 42
	assert.Equal(t, 1.0, cs.At(0).Q)
}

func TestChargeSet_Nearest(t *testing.T) {
	cs := MustChargeSet(ChargeSpec{X: -1, Q: 1}, ChargeSpec{X: 1, Q: 1})
	idx, d := cs.Nearest(r3.Vec{X: 0.75})
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 0.25, d, 1e-12)
}
