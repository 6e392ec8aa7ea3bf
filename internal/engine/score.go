package engine

import (
	"github.com/ironsheep/string-art-mcp/internal/field"
	"github.com/ironsheep/string-art-mcp/internal/nails"
)

const (
	// DefaultContrast is the contrast factor used when none is configured.
	DefaultContrast = 0.5

	// MaxContrast is the largest accepted contrast factor.
	MaxContrast = 2.0

	// coverageSaturation is the coverage at which a pixel's discount bottoms out.
	coverageSaturation = 6.0

	// minCoverageDiscount keeps heavily covered pixels from scoring zero.
	minCoverageDiscount = 0.1

	// coverageDamping scales every marking strength before it is applied.
	coverageDamping = 0.8
)

// EnhancedDarkness applies the contrast curve d * (1 + d*contrast).
func EnhancedDarkness(d, contrast float64) float64 {
	return d * (1.0 + float64(d*contrast))
}

// CoverageDiscount is the multiplier for a pixel already covered by thread:
// max(0.1, 1 - coverage/6).
func CoverageDiscount(coverage float64) float64 {
	return max(minCoverageDiscount, 1.0-coverage/coverageSaturation)
}

// LineScore is the mean of EnhancedDarkness * CoverageDiscount over the
// pixels sampled along a->b. Segments shorter than a pixel, or whose samples
// all fall outside the field, score 0.
func LineScore(darkness, coverage *field.Field, a, b nails.Point, contrast float64) float64 {
	dark := darkness.Raw()
	cov := coverage.Raw()

	var total float64
	n := forEachSample(a, b, ScoreDensity, darkness.Width(), darkness.Height(), func(idx int) {
		total += float64(EnhancedDarkness(dark[idx], contrast) * CoverageDiscount(cov[idx]))
	})
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// MarkLine adds strength*0.8 to the coverage of every pixel sampled along
// a->b. It is the only writer of a coverage field.
func MarkLine(coverage *field.Field, a, b nails.Point, strength float64) {
	cov := coverage.Raw()
	delta := float64(strength * coverageDamping)
	forEachSample(a, b, MarkDensity, coverage.Width(), coverage.Height(), func(idx int) {
		cov[idx] += delta
	})
}
