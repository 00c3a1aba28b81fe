package betseq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fitObs builds a row carrying only what Summarize reads: the grouping keys
// and the two count-based ddG estimates.
func fitObs(key FitKey, input, unbound float64) Observation {
	return Observation{
		TotalSpecies:    key.TotalSpecies,
		DDGRange:        key.DDGRange,
		Depth:           key.Depth,
		Rep:             key.Rep,
		InputCountDDG:   input,
		UnboundCountDDG: unbound,
	}
}

func Test_Summarize(t *testing.T) {
	inf := math.Inf(1)

	t.Run("two points fit exactly", func(t *testing.T) {
		// a line always fits 2 points: the boundary case must be
		// accepted, not rejected
		k := FitKey{TotalSpecies: 10, DDGRange: 1, Depth: 100, Rep: 1}
		sums := Summarize([]Observation{
			fitObs(k, 1, 2),
			fitObs(k, 3, 5),
		})

		require.Len(t, sums, 1)
		assert.Equal(t, 2, sums[0].N)
		assert.InDelta(t, 1, sums[0].RSquared, 1e-12)
		assert.InDelta(t, 1, sums[0].FracObs, 1e-12)
		assert.InDelta(t, 1.5, sums[0].Slope, 1e-12)
		assert.InDelta(t, 0.5, sums[0].Intercept, 1e-12)
	})

	t.Run("non-finite rows are excluded but counted in frac_obs", func(t *testing.T) {
		k := FitKey{TotalSpecies: 10, DDGRange: 1, Depth: 100, Rep: 1}
		sums := Summarize([]Observation{
			fitObs(k, 1, 2),
			fitObs(k, 2, 3),
			fitObs(k, 3, 4),
			fitObs(k, inf, 5),   // one finite side: observed, not fit
			fitObs(k, inf, inf), // unobserved substrate
		})

		require.Len(t, sums, 1)
		assert.Equal(t, 3, sums[0].N)
		assert.InDelta(t, 0.8, sums[0].FracObs, 1e-12)
	})

	t.Run("underpopulated group is skipped", func(t *testing.T) {
		k := FitKey{TotalSpecies: 10, DDGRange: 1, Depth: 100, Rep: 1}
		sums := Summarize([]Observation{
			fitObs(k, 1, 2),
			fitObs(k, inf, 5),
		})
		assert.Empty(t, sums)
	})

	t.Run("groups come back in key order", func(t *testing.T) {
		k1 := FitKey{TotalSpecies: 10, DDGRange: 2, Depth: 100, Rep: 1}
		k2 := FitKey{TotalSpecies: 10, DDGRange: 1, Depth: 200, Rep: 1}
		k3 := FitKey{TotalSpecies: 5, DDGRange: 3, Depth: 100, Rep: 1}

		var rows []Observation
		for _, k := range []FitKey{k1, k2, k3} {
			rows = append(rows, fitObs(k, 1, 2), fitObs(k, 3, 5))
		}

		sums := Summarize(rows)
		require.Len(t, sums, 3)
		assert.Equal(t, 5, sums[0].TotalSpecies)
		assert.Equal(t, 1.0, sums[1].DDGRange)
		assert.Equal(t, 2.0, sums[2].DDGRange)
	})

	t.Run("zero sequencing count excludes the substrate from the fit", func(t *testing.T) {
		// end to end through the derivation: a substrate with zero
		// bound reads has non-finite ddGs on both sides and must not
		// reach the regression
		rows := []Observation{
			{TotalSpecies: 10, DDGRange: 1, Depth: 100, Rep: 1, BoundCount: 0, UnboundCount: 10, InputCount: 10},
			{TotalSpecies: 10, DDGRange: 1, Depth: 100, Rep: 1, BoundCount: 10, UnboundCount: 20, InputCount: 10},
			{TotalSpecies: 10, DDGRange: 1, Depth: 100, Rep: 1, BoundCount: 20, UnboundCount: 10, InputCount: 5},
		}

		sums := Summarize(DeriveCountDDG(rows, testRT))
		require.Len(t, sums, 1)
		assert.Equal(t, 2, sums[0].N)
		assert.InDelta(t, 2.0/3, sums[0].FracObs, 1e-12)
	})

	t.Run("score combines fit quality and coverage", func(t *testing.T) {
		s := FitSummary{RSquared: 0.9, FracObs: 0.5}
		assert.InDelta(t, 0.45, s.Score(), 1e-12)
	})
}

func Test_fracObsRisesWithDepth(t *testing.T) {
	// at the shallow depth one of four substrates draws zero bound reads;
	// at the deep depth all are observed. More reads, more coverage
	rows := DeriveCountDDG(syntheticRows(), testRT)

	byDepth := make(map[int]float64)
	for _, s := range Summarize(rows) {
		byDepth[s.Depth] = s.FracObs
	}

	require.Contains(t, byDepth, 100)
	require.Contains(t, byDepth, 10000)
	assert.Greater(t, byDepth[10000], byDepth[100])
}
