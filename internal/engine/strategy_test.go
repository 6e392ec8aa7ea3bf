package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	for code, want := range []Strategy{Default, Adaptive, DynamicThreshold, ExplorationBoost} {
		got, err := ParseStrategy(code)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	for _, bad := range []int{-1, 4, 99} {
		_, err := ParseStrategy(bad)
		require.Error(t, err)
	}
}

func TestResolveStrategy(t *testing.T) {
	tests := []struct {
		name       string
		requested  Strategy
		maxStrings int
		want       Strategy
	}{
		{"unbounded default", Default, 0, Default},
		{"unbounded forces default", ExplorationBoost, 0, Default},
		{"bounded default becomes adaptive", Default, 2000, Adaptive},
		{"bounded adaptive", Adaptive, 2000, Adaptive},
		{"bounded dynamic", DynamicThreshold, 10, DynamicThreshold},
		{"bounded exploration", ExplorationBoost, 1, ExplorationBoost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveStrategy(tt.requested, tt.maxStrings))
		})
	}
}

func TestStrategy_Threshold(t *testing.T) {
	require.Equal(t, 0.01, Default.Threshold(500, 1000))
	require.Equal(t, 0.01, Adaptive.Threshold(500, 1000))
	require.Equal(t, 0.01, ExplorationBoost.Threshold(500, 1000))

	require.Equal(t, 0.01, DynamicThreshold.Threshold(0, 1000))
	require.InDelta(t, 0.02, DynamicThreshold.Threshold(500, 1000), 1e-12)
	require.InDelta(t, 0.03, DynamicThreshold.Threshold(1000, 1000), 1e-12)

	// No target: nothing to measure progress against.
	require.Equal(t, 0.01, DynamicThreshold.Threshold(5000, 0))
}

func TestStrategy_Strength(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		iter     int
		target   int
		want     float64
	}{
		{"default start", Default, 0, 100, 1.0},
		{"default half", Default, 50, 100, 0.75},
		{"default end", Default, 100, 100, 0.5},
		{"default unbounded", Default, 50, 0, 0.6},
		{"adaptive start", Adaptive, 0, 100, 1.0},
		{"adaptive end", Adaptive, 100, 100, 0.7},
		{"adaptive unbounded", Adaptive, 50, 0, 0.8},
		{"dynamic bounded", DynamicThreshold, 50, 100, 0.9},
		{"dynamic unbounded", DynamicThreshold, 50, 0, 0.9},
		{"exploration start", ExplorationBoost, 0, 100, 0.5},
		{"exploration end", ExplorationBoost, 100, 100, 0.9},
		{"exploration unbounded", ExplorationBoost, 50, 0, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, tt.strategy.Strength(tt.iter, tt.target), 1e-12)
		})
	}
}

func TestStrategy_LengthBonus(t *testing.T) {
	require.InDelta(t, 0.05, ExplorationBoost.LengthBonus(40, 80), 1e-12)
	require.InDelta(t, 0.1, ExplorationBoost.LengthBonus(80, 80), 1e-12)
	require.Zero(t, ExplorationBoost.LengthBonus(40, 0))
	require.Zero(t, Default.LengthBonus(40, 80))
	require.Zero(t, Adaptive.LengthBonus(40, 80))
}

func TestStrategy_String(t *testing.T) {
	require.Equal(t, "Default", Default.String())
	require.Equal(t, "Exploration Boost", ExplorationBoost.String())
	require.Equal(t, "Strategy(7)", Strategy(7).String())
	require.False(t, Strategy(7).Valid())
}
