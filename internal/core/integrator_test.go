package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimatePi_ZeroPrecision(t *testing.T) {
	_, err := EstimatePi(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroPrecision))
}

func TestEstimatePi_SmallPrecisions(t *testing.T) {
	got, err := EstimatePi(1)
	require.NoError(t, err)
	assert.InDelta(t, 3.2, got, 1e-15)

	got, err = EstimatePi(10)
	require.NoError(t, err)
	assert.InDelta(t, 3.1424259850010987, got, 1e-12)
}

func TestEstimatePi_Converges(t *testing.T) {
	got, err := EstimatePi(1_000_000)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, got, 1e-5)

	prevErr := math.Inf(1)
	for _, p := range []uint64{1, 10, 100, 1000, 10000} {
		est, err := EstimatePi(p)
		require.NoError(t, err)
		e := math.Abs(est - math.Pi)
		assert.Less(t, e, prevErr, "precision %d", p)
		prevErr = e
	}
}
