package engine

import "github.com/ironsheep/string-art-mcp/internal/nails"

// Tuned heuristics. Changing any of these changes the produced art.
const (
	// circularRecency and rectRecency are how many trailing sequence entries
	// are excluded from the candidate scan.
	circularRecency = 7
	rectRecency     = 5

	// stagnationTolerance is how far the best score may drop and still count
	// as "not improving".
	stagnationTolerance = 0.0005
	// stagnationLimit is the stagnant-iteration count that, once exceeded,
	// forces a jump.
	stagnationLimit = 30

	// oscillationWarmup is the iteration after which two-cycles are tracked.
	oscillationWarmup = 100
	// oscillationLimit is the alternating-iteration count that stops a run.
	oscillationLimit = 20

	// rectFlatAfter is the first iteration the flat-score rule applies on.
	rectFlatAfter = 2000
	// rectFlatRun is the unchanged-score count that stops a rectangular run.
	rectFlatRun = 1500
	// rectStrength replaces the strategy strength on rectangular layouts.
	rectStrength = 1.0

	// scoreEpsilon is the tolerance for treating two scores as equal.
	scoreEpsilon = 1e-6
)

// variant is the set of per-layout knobs the builder consults.
type variant struct {
	recencyWindow    int
	forcedJump       bool
	oscillationCheck bool
	lengthBonus      bool
	flatScoreAfter   int
	flatScoreRun     int
	fixedStrength    float64
	progressEvery    int
}

func variantFor(kind nails.Kind) variant {
	if kind == nails.Rectangular {
		return variant{
			recencyWindow:  rectRecency,
			flatScoreAfter: rectFlatAfter,
			flatScoreRun:   rectFlatRun,
			fixedStrength:  rectStrength,
			progressEvery:  50,
		}
	}
	return variant{
		recencyWindow:    circularRecency,
		forcedJump:       true,
		oscillationCheck: true,
		lengthBonus:      true,
		progressEvery:    100,
	}
}
