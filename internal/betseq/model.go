package betseq

import (
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// FitSummary is one row of the per-condition regression summary: how well
// the two count-based ddG estimates agree within a single replicate, and how
// many substrates yielded any usable signal at all.
type FitSummary struct {
	TotalSpecies int
	DDGRange     float64
	Depth        int
	Rep          int

	// FracObs is the fraction of substrates in the group with at least
	// one finite count-based ddG
	FracObs float64

	// RSquared is the coefficient of determination of the OLS fit of
	// unbound_count_ddG on input_count_ddG
	RSquared float64

	// Slope and Intercept of the same fit
	Slope     float64
	Intercept float64

	// N is the number of finite paired observations the fit used
	N int
}

// Score is the composite accuracy statistic r² * frac_obs. It penalizes
// groups whose high r² came from discarding most substrates to non-finite
// values.
func (s FitSummary) Score() float64 {
	return s.RSquared * s.FracObs
}

// Summarize fits an ordinary least squares regression of unbound_count_ddG
// on input_count_ddG for every (total_species, ddG_range, depth, rep) group
// and returns one FitSummary per group, in deterministic key order.
//
// Rows with a non-finite ddG on either side are excluded from the fit but
// still counted in the group's frac_obs denominator. Groups with fewer than
// two usable rows cannot be fit; they are skipped with a warning rather than
// producing degenerate statistics. Exactly two rows is a legal fit (r²=1).
func Summarize(rows []Observation) []FitSummary {
	groups := make(map[FitKey][]Observation)
	for _, o := range rows {
		k := o.fitKey()
		groups[k] = append(groups[k], o)
	}

	keys := make([]FitKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessFitKey(keys[i], keys[j]) })

	summaries := make([]FitSummary, 0, len(keys))
	for _, k := range keys {
		group := groups[k]

		var anyFinite int
		var xs, ys []float64
		for _, o := range group {
			if isFinite(o.UnboundCountDDG) || isFinite(o.InputCountDDG) {
				anyFinite++
			}
			if finitePair(o) {
				xs = append(xs, o.InputCountDDG)
				ys = append(ys, o.UnboundCountDDG)
			}
		}

		if len(xs) < 2 {
			logger.Warn("skipping regression group",
				zap.Int("totalSpecies", k.TotalSpecies),
				zap.Float64("ddGRange", k.DDGRange),
				zap.Int("depth", k.Depth),
				zap.Int("rep", k.Rep),
				zap.Int("usable", len(xs)),
				zap.Error(ErrInsufficientData))
			continue
		}

		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		summaries = append(summaries, FitSummary{
			TotalSpecies: k.TotalSpecies,
			DDGRange:     k.DDGRange,
			Depth:        k.Depth,
			Rep:          k.Rep,
			FracObs:      float64(anyFinite) / float64(len(group)),
			RSquared:     stat.RSquared(xs, ys, nil, alpha, beta),
			Slope:        beta,
			Intercept:    alpha,
			N:            len(xs),
		})
	}

	return summaries
}

func lessFitKey(a, b FitKey) bool {
	if a.TotalSpecies != b.TotalSpecies {
		return a.TotalSpecies < b.TotalSpecies
	}
	if a.DDGRange != b.DDGRange {
		return a.DDGRange < b.DDGRange
	}
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	return a.Rep < b.Rep
}
