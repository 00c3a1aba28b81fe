package betseq

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DeriveConcDDG computes the concentration-based free-energy differences.
// For every row, true_ddG = -RT*ln(bound_conc/unbound_conc) and
// input_conc_ddG = -RT*ln(bound_conc/input_conc); both are then mean-centered
// within the row's (ddG_range, total_species, dummy) group so zero represents
// the group's average affinity. Depleted sublibraries (zero concentration)
// produce non-finite values, which pass through uncentered means untouched:
// the group mean is taken over finite raw values only.
//
// The input is not mutated. The returned slice has the same rows in the same
// order with the derived fields populated, and rerunning it on its own output
// reproduces identical values.
func DeriveConcDDG(rows []Observation, rt float64) []Observation {
	out := make([]Observation, len(rows))
	copy(out, rows)

	trueRaw := make(map[ConcKey][]float64)
	inputRaw := make(map[ConcKey][]float64)
	for i := range out {
		o := &out[i]
		o.TrueDDG = logRatioDDG(o.BoundConc, o.UnboundConc, rt)
		o.InputConcDDG = logRatioDDG(o.BoundConc, o.InputConc, rt)

		k := o.concKey()
		if !math.IsInf(o.TrueDDG, 0) && !math.IsNaN(o.TrueDDG) {
			trueRaw[k] = append(trueRaw[k], o.TrueDDG)
		}
		if !math.IsInf(o.InputConcDDG, 0) && !math.IsNaN(o.InputConcDDG) {
			inputRaw[k] = append(inputRaw[k], o.InputConcDDG)
		}
	}

	trueMean := make(map[ConcKey]float64, len(trueRaw))
	inputMean := make(map[ConcKey]float64, len(inputRaw))
	for k, vals := range trueRaw {
		trueMean[k] = stat.Mean(vals, nil)
	}
	for k, vals := range inputRaw {
		inputMean[k] = stat.Mean(vals, nil)
	}

	for i := range out {
		o := &out[i]
		k := o.concKey()
		o.TrueDDG -= trueMean[k]
		o.InputConcDDG -= inputMean[k]
	}

	return out
}

// DeriveCountDDG computes the sequencing-count-based free-energy differences.
// Within each (ddG_range, total_species, dummy, depth) partition the three
// count columns are normalized into observation probabilities summing to 1,
// then unbound_count_ddG = -RT*ln(bound_p/unbound_p) and
// input_count_ddG = -RT*ln(bound_p/input_p). Unlike the concentration case
// these are NOT mean-centered. A substrate never sampled in a sublibrary has
// probability zero there and a non-finite ddG, an expected outcome at low
// depth rather than an error.
//
// Pure in the same sense as DeriveConcDDG: same rows, same order, idempotent.
func DeriveCountDDG(rows []Observation, rt float64) []Observation {
	out := make([]Observation, len(rows))
	copy(out, rows)

	type sums struct {
		bound, unbound, input float64
	}
	total := make(map[CountKey]*sums)
	for i := range out {
		o := &out[i]
		k := o.countKey()
		s, ok := total[k]
		if !ok {
			s = &sums{}
			total[k] = s
		}
		s.bound += float64(o.BoundCount)
		s.unbound += float64(o.UnboundCount)
		s.input += float64(o.InputCount)
	}

	for i := range out {
		o := &out[i]
		s := total[o.countKey()]
		o.BoundP = float64(o.BoundCount) / s.bound
		o.UnboundP = float64(o.UnboundCount) / s.unbound
		o.InputP = float64(o.InputCount) / s.input
		o.UnboundCountDDG = logRatioDDG(o.BoundP, o.UnboundP, rt)
		o.InputCountDDG = logRatioDDG(o.BoundP, o.InputP, rt)
	}

	return out
}

// logRatioDDG is the shared free-energy form -RT*ln(num/den). Zero or
// negative inputs yield ±Inf or NaN, which callers filter rather than coerce.
func logRatioDDG(num, den, rt float64) float64 {
	return -math.Log(num/den) * rt
}

// finitePair reports whether both count-based ddG estimates of a row are
// finite, i.e. the row is usable by the regression.
func finitePair(o Observation) bool {
	return isFinite(o.UnboundCountDDG) && isFinite(o.InputCountDDG)
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
