package common

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		want error
		kind Kind
	}{
		{ValueError("op", "bad %d", 1), ErrValue, ValueKind},
		{ShapeError("op", "bad"), ErrShape, ShapeKind},
		{LayoutError("op", "bad"), ErrLayout, LayoutKind},
		{ValidationError("op", "bad"), ErrValidation, ValidationKind},
		{SizeMismatchError("op", "bad"), ErrSizeMismatch, SizeMismatchKind},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.ErrorIs(t, tt.err, ErrParameter)
			assert.ErrorIs(t, tt.err, tt.want)

			wrapped := fmt.Errorf("context: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.want)

			var perr *ParameterError
			require.True(t, errors.As(wrapped, &perr))
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, "op", perr.Op)
		})
	}

	assert.NotErrorIs(t, ShapeError("op", "x"), ErrValue)
	assert.Equal(t, "stft: value error: bad 3", ValueError("stft", "bad %d", 3).Error())
	assert.Equal(t, "shape error: empty", ShapeError("", "empty").Error())
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Linspace(0, 1, 5))
	assert.Equal(t, []float64{3}, Linspace(3, 9, 1))
	assert.Empty(t, Linspace(0, 1, 0))

	got := Linspace(0, 11025, 1025)
	assert.Equal(t, 11025.0, got[len(got)-1])
	assert.InDelta(t, 11025.0/1024, got[1], 1e-9)
}

func TestArrayHelpers(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 2}, Arange(3))
	assert.Empty(t, Arange(-1))

	assert.Equal(t, []float64{1, 2, -4}, Diff([]float64{1, 2, 4, 0}))
	assert.Empty(t, Diff([]float64{1}))

	assert.Equal(t, []float64{0, 0, 2}, ClampMin([]float64{-1, 0, 2}, 0))

	assert.True(t, AllFinite([]float64{1, -2}))
	assert.False(t, AllFinite([]float64{1, math.Inf(-1)}))
	assert.Equal(t, []float64{1, 3}, FiniteValues([]float64{1, math.NaN(), 3, math.Inf(1)}))

	lo, hi := MinMax([]float64{3, -1, 7})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 7.0, hi)
}

func TestFloorDivAndMod(t *testing.T) {
	assert.Equal(t, 2, FloorDiv(7, 3))
	assert.Equal(t, -3, FloorDiv(-7, 3))
	assert.Equal(t, -2, FloorDiv(-6, 3))
	assert.Equal(t, 1, Mod(7, 3))
	assert.Equal(t, 2, Mod(-7, 3))
	assert.Equal(t, 0, Mod(-6, 3))
}
