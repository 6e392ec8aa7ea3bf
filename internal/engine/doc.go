// Package engine builds string-art thread paths.
//
// Given a darkness field and a nail layout, Build grows a sequence of nail
// indices one connection at a time. Each step scores every eligible nail by
// the mean contrast-enhanced darkness along the segment, discounted by the
// thread already laid over those pixels, and takes the best one. A run stops
// when the best score falls below the strategy threshold, when it settles
// into a two-score cycle, when its flat-score budget runs out (rectangular
// layouts), or when it reaches its string cap.
//
// The algorithm is fully deterministic. Two runs over the same field, layout,
// strategy and contrast produce identical sequences on every platform.
//
// # Color
//
// BuildColor runs the same builder once per CMYK channel, each with its own
// coverage field, and returns the four sequences together.
//
// # Strategies
//
// A Strategy is a pure parameter bundle: it decides the stopping threshold
// and the coverage-marking strength as a run progresses. ResolveStrategy
// reproduces the remap the command-line tool applies before a run.
package engine
