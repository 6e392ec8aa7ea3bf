package engine

import (
	"fmt"
	"io"
	"log"
	"math"

	"github.com/ironsheep/string-art-mcp/internal/field"
	"github.com/ironsheep/string-art-mcp/internal/nails"
)

// UnboundedLimit caps the sequence length of a run with no string target.
const UnboundedLimit = 10000

// StopReason records why a run ended.
type StopReason int

const (
	// StopLimit means the string target or the unbounded safety cap was hit.
	StopLimit StopReason = iota
	// StopNoCandidate means every nail was excluded by the recency window.
	StopNoCandidate
	// StopThreshold means the best score fell below the strategy threshold.
	StopThreshold
	// StopOscillation means the best score alternated between two values.
	StopOscillation
	// StopFlatScore means the best score stopped changing (rectangular only).
	StopFlatScore
)

// String returns a snake_case reason name suitable for JSON output.
func (r StopReason) String() string {
	switch r {
	case StopLimit:
		return "limit"
	case StopNoCandidate:
		return "no_candidate"
	case StopThreshold:
		return "threshold"
	case StopOscillation:
		return "oscillation"
	case StopFlatScore:
		return "flat_score"
	default:
		return fmt.Sprintf("stop(%d)", int(r))
	}
}

// MarshalText lets StopReason appear as its name in JSON.
func (r StopReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Options configures one path-build run.
type Options struct {
	// MaxStrings is the target sequence length; 0 means unbounded.
	MaxStrings int

	// Strategy is used as given. Apply ResolveStrategy first for CLI parity.
	Strategy Strategy

	// Contrast is the darkness enhancement factor in [0, 2].
	Contrast float64

	// Logger receives stop reasons and progress. Nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns an unbounded Default-strategy run at contrast 0.5.
func DefaultOptions() Options {
	return Options{Strategy: Default, Contrast: DefaultContrast}
}

// Result is the outcome of one run.
type Result struct {
	// Sequence is the ordered list of nail indices, starting at 0.
	Sequence []int `json:"sequence"`

	// Stop is why the run ended.
	Stop StopReason `json:"stop"`

	// Iterations is the number of loop iterations executed, including the
	// one that stopped the run.
	Iterations int `json:"iterations"`

	// LastScore is the best score of the final accepted connection, or -1
	// when no connection was made.
	LastScore float64 `json:"last_score"`
}

// Build runs the greedy path builder over darkness with the given layout.
// The darkness field is only read; a fresh coverage field is allocated for
// the run and dropped when it returns.
func Build(darkness *field.Field, layout *nails.Layout, opts Options) (*Result, error) {
	if err := validate(darkness, layout, opts); err != nil {
		return nil, err
	}

	coverage, err := field.New(darkness.Width(), darkness.Height())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate coverage field: %w", err)
	}

	r := newRun(darkness, coverage, layout, opts)
	return r.execute(), nil
}

func validate(darkness *field.Field, layout *nails.Layout, opts Options) error {
	if darkness == nil {
		return ErrNilField
	}
	if layout == nil {
		return ErrNilLayout
	}
	if layout.Count() < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewNails, layout.Count())
	}
	if opts.Contrast < 0 || opts.Contrast > MaxContrast || math.IsNaN(opts.Contrast) {
		return fmt.Errorf("%w: got %g", ErrContrastRange, opts.Contrast)
	}
	if opts.MaxStrings < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeTarget, opts.MaxStrings)
	}
	if !opts.Strategy.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStrategy, int(opts.Strategy))
	}
	return nil
}

// run holds the mutable state of one path build. It is never shared.
type run struct {
	darkness *field.Field
	coverage *field.Field
	layout   *nails.Layout
	opts     Options
	v        variant
	log      *log.Logger

	target int
	limit  int

	current  int
	sequence []int

	lastBestScore   float64
	lastScore       float64
	secondLastScore float64
	stagnantCount   int
	alternatingRun  int
	flatRun         int

	// onMark, when set, is called after every coverage update. Tests use it
	// to observe the coverage field mid-run.
	onMark func(iter int, coverage *field.Field)
}

func newRun(darkness, coverage *field.Field, layout *nails.Layout, opts Options) *run {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	limit := UnboundedLimit
	if opts.MaxStrings > 0 {
		limit = opts.MaxStrings
	}

	return &run{
		darkness:        darkness,
		coverage:        coverage,
		layout:          layout,
		opts:            opts,
		v:               variantFor(layout.Kind()),
		log:             logger,
		target:          opts.MaxStrings,
		limit:           limit,
		sequence:        append(make([]int, 0, min(limit, 4096)), 0),
		lastBestScore:   1.0,
		lastScore:       -1.0,
		secondLastScore: -1.0,
	}
}

func (r *run) execute() *Result {
	r.log.Printf("Analyzing %dx%d field with %d %s nails, contrast %.2f, strategy %s",
		r.darkness.Width(), r.darkness.Height(), r.layout.Count(), r.layout.Kind(), r.opts.Contrast, r.opts.Strategy)
	if r.target > 0 {
		r.log.Printf("Target strings: %d", r.target)
	} else {
		r.log.Printf("Target strings: unlimited (will stop when no improvement)")
	}

	res := &Result{Stop: StopLimit, LastScore: -1}

	iter := 0
	for ; iter < r.limit-1; iter++ {
		next, best := r.scan()

		threshold := r.opts.Strategy.Threshold(iter, r.target)
		if next < 0 {
			res.Stop = StopNoCandidate
			r.log.Printf("Stopping: no candidate nail outside the recency window")
			break
		}
		if best < threshold {
			res.Stop = StopThreshold
			r.log.Printf("Stopping: score too low (%.6f < %.4f), no more meaningful connections", best, threshold)
			break
		}

		if r.v.oscillationCheck && r.oscillating(iter, best) {
			res.Stop = StopOscillation
			r.log.Printf("Stopping: detected alternating pattern between scores %.6f and %.6f", best, r.lastScore)
			break
		}
		if r.v.flatScoreAfter > 0 && r.flat(iter, best) {
			res.Stop = StopFlatScore
			r.log.Printf("Stopping: score has not changed for %d iterations (score: %.6f)", r.v.flatScoreRun, best)
			break
		}

		if r.v.forcedJump {
			next = r.explore(iter, next, best)
		}

		MarkLine(r.coverage, r.layout.Nail(r.current), r.layout.Nail(next), r.strength(iter))
		if r.onMark != nil {
			r.onMark(iter, r.coverage)
		}

		r.sequence = append(r.sequence, next)
		r.current = next
		r.secondLastScore = r.lastScore
		r.lastScore = best
		r.lastBestScore = best
		res.LastScore = best

		if (iter+1)%r.v.progressEvery == 0 {
			r.log.Printf("Generated %d strings, last score: %.6f", iter+1, best)
		}
	}

	if res.Stop != StopLimit {
		iter++
	}
	res.Iterations = iter
	res.Sequence = r.sequence
	r.log.Printf("Generated %d total strings", len(r.sequence))
	return res
}

// scan scores every candidate nail from the current one and returns the best
// candidate and its score, or -1 when the recency window excluded them all.
// Ties keep the lowest index.
func (r *run) scan() (int, float64) {
	best := -1
	bestScore := -1.0
	from := r.layout.Nail(r.current)
	span := 2.0 * r.layout.Radius()

	for j := 0; j < r.layout.Count(); j++ {
		if j == r.current || r.recent(j) {
			continue
		}
		to := r.layout.Nail(j)
		score := LineScore(r.darkness, r.coverage, from, to, r.opts.Contrast)
		if r.v.lengthBonus {
			score += r.opts.Strategy.LengthBonus(r.layout.Distance(r.current, j), span)
		}
		if score > bestScore {
			bestScore = score
			best = j
		}
	}
	return best, bestScore
}

// recent reports whether nail j is among the last recencyWindow entries of
// the sequence.
func (r *run) recent(j int) bool {
	window := min(r.v.recencyWindow, len(r.sequence))
	for k := len(r.sequence) - window; k < len(r.sequence); k++ {
		if r.sequence[k] == j {
			return true
		}
	}
	return false
}

// oscillating tracks a best score that equals the one two steps back while
// differing from the previous one, and reports a sustained two-cycle.
func (r *run) oscillating(iter int, best float64) bool {
	if iter <= oscillationWarmup {
		return false
	}
	if math.Abs(best-r.secondLastScore) < scoreEpsilon && math.Abs(best-r.lastScore) > scoreEpsilon {
		r.alternatingRun++
	} else {
		r.alternatingRun = 0
	}
	return r.alternatingRun >= oscillationLimit
}

// flat counts consecutive iterations whose best score matches the previous
// one once the warmup has passed.
func (r *run) flat(iter int, best float64) bool {
	if iter < r.v.flatScoreAfter {
		return false
	}
	if math.Abs(best-r.lastScore) < scoreEpsilon {
		r.flatRun++
	} else {
		r.flatRun = 0
	}
	return r.flatRun >= r.v.flatScoreRun
}

// explore updates stagnation tracking and, once the best score has stopped
// improving for long enough, overrides next with a deterministic jump.
func (r *run) explore(iter, next int, best float64) int {
	if best >= r.lastBestScore-stagnationTolerance {
		r.stagnantCount++
	} else {
		r.stagnantCount = 0
	}
	if r.stagnantCount <= stagnationLimit {
		return next
	}

	n := r.layout.Count()
	offset := 1 + iter%11 + iter/100
	jump := (r.current + offset) % n
	for jump == r.current {
		jump = (jump + 1) % n
	}
	r.stagnantCount = 0
	return jump
}

func (r *run) strength(iter int) float64 {
	if r.v.fixedStrength > 0 {
		return r.v.fixedStrength
	}
	return r.opts.Strategy.Strength(iter, r.target)
}
