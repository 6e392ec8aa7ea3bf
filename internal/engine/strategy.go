package engine

import "fmt"

// Strategy selects how the score threshold and the coverage-marking strength
// evolve over a run. A Strategy is a plain value; the builder only reads it.
type Strategy int

const (
	// Default decays marking strength linearly to one half at the target.
	Default Strategy = iota
	// Adaptive decays marking strength gently (to 0.7 at the target) so
	// strings spread further across the image.
	Adaptive
	// DynamicThreshold marks at a constant 0.9 and raises the stopping
	// threshold as the run progresses.
	DynamicThreshold
	// ExplorationBoost rewards long segments and strengthens marking over time.
	ExplorationBoost
)

const (
	baseThreshold    = 0.01
	dynamicThreshold = 0.02
	lengthBonus      = 0.1
)

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case Default:
		return "Default"
	case Adaptive:
		return "Adaptive Coverage"
	case DynamicThreshold:
		return "Dynamic Threshold"
	case ExplorationBoost:
		return "Exploration Boost"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Valid reports whether s is one of the four known strategies.
func (s Strategy) Valid() bool {
	return s >= Default && s <= ExplorationBoost
}

// ParseStrategy converts a numeric strategy code (0-3).
func ParseStrategy(code int) (Strategy, error) {
	s := Strategy(code)
	if !s.Valid() {
		return Default, fmt.Errorf("coverage strategy must be 0-3, got %d", code)
	}
	return s, nil
}

// ResolveStrategy applies the caller-side remap: an unbounded run always uses
// Default, and a bounded run that asked for Default gets Adaptive instead.
// The engine itself never applies this; callers wanting parity with the
// command-line tool must.
func ResolveStrategy(requested Strategy, maxStrings int) Strategy {
	if maxStrings <= 0 {
		return Default
	}
	if requested == Default {
		return Adaptive
	}
	return requested
}

// Threshold is the minimum best score that keeps a run going at iteration
// iter. target <= 0 means unbounded.
func (s Strategy) Threshold(iter, target int) float64 {
	if s == DynamicThreshold && target > 0 {
		progress := float64(iter) / float64(target)
		return baseThreshold + float64(dynamicThreshold*progress)
	}
	return baseThreshold
}

// Strength is the coverage-marking strength applied at iteration iter.
func (s Strategy) Strength(iter, target int) float64 {
	bounded := target > 0
	var progress float64
	if bounded {
		progress = float64(iter) / float64(target)
	}

	switch s {
	case Adaptive:
		if bounded {
			return 1.0 - float64(0.3*progress)
		}
		return 0.8
	case DynamicThreshold:
		return 0.9
	case ExplorationBoost:
		if bounded {
			return 0.5 + float64(0.4*progress)
		}
		return 0.7
	default:
		if bounded {
			return 1.0 - float64(iter)/(float64(target)*2.0)
		}
		return 0.6
	}
}

// LengthBonus is the score added to a candidate segment of the given length.
// Only ExplorationBoost rewards length; span is the longest possible segment.
func (s Strategy) LengthBonus(length, span float64) float64 {
	if s != ExplorationBoost || span <= 0 {
		return 0
	}
	return lengthBonus * (length / span)
}
