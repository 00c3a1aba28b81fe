package cmd

import (
	"github.com/maraf10/BET-seq/config"
	"github.com/maraf10/BET-seq/internal/betseq"
	"github.com/spf13/cobra"
)

// analyzeCmd runs the whole pipeline: load the observation table, derive the
// concentration- and count-based ddG estimates, fit the per-condition
// regressions, and write every summary chart.
var analyzeCmd = &cobra.Command{
	Use:                        "analyze",
	Short:                      "Derive ddG estimates and render every summary chart",
	Run:                        betseq.AnalyzeCmd,
	SuggestionsMinimumDistance: 2,
	Long: `
Load a simulated BET-seq observation table, compute the concentration-based
(true) and sequencing-count-based ddG estimates per substrate, fit an
ordinary least squares regression between the two count-based estimates for
every condition and replicate, and render the faceted summary charts as PNGs.

Substrates depleted from a sublibrary, or never sampled at a given depth,
yield non-finite ddG values; those are reported per condition as frac_obs and
excluded from the regressions.`,
}

// set flags
func init() {
	analyzeCmd.Flags().StringP("input", "i", "", "path to the observation table <CSV>")
	analyzeCmd.Flags().StringP("out", "o", "charts", "directory to write chart PNGs into")
	analyzeCmd.Flags().Float64("rt", config.DefaultRT, "RT in kcal/mol")
	analyzeCmd.Flags().Int("dummy-facet", config.DefaultDummyFacet, "marker position shown in count-based charts")
	analyzeCmd.Flags().Float64("width", 3.0, "facet tile width in inches")
	analyzeCmd.Flags().Float64("height", 2.5, "facet tile height in inches")
	analyzeCmd.Flags().Int("bins", 30, "histogram bins per facet panel")

	analyzeCmd.MarkFlagRequired("input")

	RootCmd.AddCommand(analyzeCmd)
}
