package engine

import (
	"testing"

	"github.com/ironsheep/string-art-mcp/internal/field"
	"github.com/ironsheep/string-art-mcp/internal/nails"
	"github.com/stretchr/testify/require"
)

func TestEnhancedDarkness(t *testing.T) {
	require.Equal(t, 0.625, EnhancedDarkness(0.5, 0.5))
	require.Equal(t, 0.5, EnhancedDarkness(0.5, 0))
	require.Equal(t, 3.0, EnhancedDarkness(1, 2))
	require.Zero(t, EnhancedDarkness(0, 2))
}

func TestCoverageDiscount(t *testing.T) {
	require.Equal(t, 1.0, CoverageDiscount(0))
	require.InDelta(t, 0.5, CoverageDiscount(3), 1e-12)
	require.InDelta(t, 0.1, CoverageDiscount(5.4), 1e-12)
	require.Equal(t, 0.1, CoverageDiscount(6))
	require.Equal(t, 0.1, CoverageDiscount(100))
}

func TestLineScore(t *testing.T) {
	dark, err := field.Uniform(20, 20, 0.5)
	require.NoError(t, err)
	cov, err := field.New(20, 20)
	require.NoError(t, err)

	a := nails.Point{X: 2, Y: 2}
	b := nails.Point{X: 17, Y: 11}
	require.Equal(t, 0.625, LineScore(dark, cov, a, b, 0.5))

	cov.Fill(3)
	require.InDelta(t, 0.3125, LineScore(dark, cov, a, b, 0.5), 1e-12)
}

func TestLineScore_ZeroCases(t *testing.T) {
	dark, err := field.Uniform(10, 10, 1)
	require.NoError(t, err)
	cov, err := field.New(10, 10)
	require.NoError(t, err)

	short := LineScore(dark, cov, nails.Point{X: 5, Y: 5}, nails.Point{X: 5.5, Y: 5}, 0.5)
	require.Zero(t, short)

	outside := LineScore(dark, cov, nails.Point{X: 20, Y: 20}, nails.Point{X: 30, Y: 30}, 0.5)
	require.Zero(t, outside)
}

func TestMarkLine(t *testing.T) {
	cov, err := field.New(5, 1)
	require.NoError(t, err)

	MarkLine(cov, nails.Point{X: 0, Y: 0}, nails.Point{X: 4, Y: 0}, 1.0)

	// Pixel 0 is sampled twice at the marking density.
	require.InDelta(t, 1.6, cov.At(0, 0), 1e-12)
	for x := 1; x < 5; x++ {
		require.InDelta(t, 0.8, cov.At(x, 0), 1e-12)
	}

	MarkLine(cov, nails.Point{X: 0, Y: 0}, nails.Point{X: 4, Y: 0}, 0.5)
	require.InDelta(t, 1.2, cov.At(3, 0), 1e-12)
}
