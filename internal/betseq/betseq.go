// Package betseq analyzes simulated BET-seq equilibrium-binding and
// sequencing data. It loads a flat observation table, derives per-substrate
// free-energy differences (ddG) from concentrations and from sequencing
// counts, fits a per-condition regression between the two count-based ddG
// estimates, and renders faceted summary charts
package betseq

import (
	"go.uber.org/zap"
)

var (
	// logger is set once from cmd/root. Tests swap in zap.NewNop()
	logger = zap.NewNop()
)

// SetLogger sets the package logger. Called from cmd during setup.
func SetLogger(l *zap.Logger) {
	logger = l
}

// Observation is one row of the simulated assay table: a single substrate
// within one experimental condition, replicate and sequencing depth.
// The derived fields are zero until the Derive* stages populate them.
type Observation struct {
	// DDGRange is the spread (kcal/mol) of the simulated affinity library
	DDGRange float64

	// TotalSpecies is the number of substrates in the simulated library
	TotalSpecies int

	// Dummy is the position of the high-concentration marker substrate
	Dummy int

	// Depth is the total simulated sequencing read count per sublibrary
	Depth int

	// Rep is the replicate index of the sequencing draw
	Rep int

	// KD is the substrate's dissociation constant
	KD float64

	// equilibrium concentrations in the three sublibraries
	BoundConc   float64
	UnboundConc float64
	InputConc   float64

	// simulated sequencing read counts in the three sublibraries
	BoundCount   int
	UnboundCount int
	InputCount   int

	// DummyBool marks the synthetic marker substrate, excluded from
	// concentration-only analyses
	DummyBool bool

	// TrueDDG is -RT*ln(bound/unbound concentration), mean-centered
	// within the condition group
	TrueDDG float64

	// InputConcDDG is -RT*ln(bound/input concentration), mean-centered
	// within the condition group
	InputConcDDG float64

	// observation probabilities, normalized within a (condition, depth)
	// partition so each column sums to 1
	BoundP   float64
	UnboundP float64
	InputP   float64

	// UnboundCountDDG is -RT*ln(bound_p/unbound_p). Not centered
	UnboundCountDDG float64

	// InputCountDDG is -RT*ln(bound_p/input_p). Not centered
	InputCountDDG float64
}

// ConcKey identifies a condition group for concentration-based derivations.
type ConcKey struct {
	DDGRange     float64
	TotalSpecies int
	Dummy        int
}

// CountKey identifies a (condition, depth) partition for count-based
// derivations. Counts within one partition sum to approximately Depth.
type CountKey struct {
	ConcKey
	Depth int
}

// FitKey identifies one regression group: a condition at a sequencing
// depth within a single replicate.
type FitKey struct {
	TotalSpecies int
	DDGRange     float64
	Depth        int
	Rep          int
}

func (o Observation) concKey() ConcKey {
	return ConcKey{DDGRange: o.DDGRange, TotalSpecies: o.TotalSpecies, Dummy: o.Dummy}
}

func (o Observation) countKey() CountKey {
	return CountKey{ConcKey: o.concKey(), Depth: o.Depth}
}

func (o Observation) fitKey() FitKey {
	return FitKey{TotalSpecies: o.TotalSpecies, DDGRange: o.DDGRange, Depth: o.Depth, Rep: o.Rep}
}

// ExcludeDummy returns the rows with the marker substrate removed. Used by
// the concentration analyses, where the marker's huge concentration would
// swamp every distribution.
func ExcludeDummy(rows []Observation) []Observation {
	kept := make([]Observation, 0, len(rows))
	for _, r := range rows {
		if !r.DummyBool {
			kept = append(kept, r)
		}
	}
	return kept
}

// FilterDummyPosition returns only the rows whose marker position equals pos.
// The count-based charts fix a single representative marker position to keep
// the facet count tractable.
func FilterDummyPosition(rows []Observation, pos int) []Observation {
	kept := make([]Observation, 0, len(rows))
	for _, r := range rows {
		if r.Dummy == pos {
			kept = append(kept, r)
		}
	}
	return kept
}
