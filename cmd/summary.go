package cmd

import (
	"github.com/maraf10/BET-seq/config"
	"github.com/maraf10/BET-seq/internal/betseq"
	"github.com/spf13/cobra"
)

// summaryCmd prints the per-condition regression summary without rendering
// any charts, for a quick look at assay-design trade-offs from a terminal.
var summaryCmd = &cobra.Command{
	Use:                        "summary",
	Short:                      "Print the per-condition fit summary table",
	Run:                        betseq.SummaryCmd,
	SuggestionsMinimumDistance: 2,
	Long: `
Load a simulated BET-seq observation table and print one row per
(total_species, ddG_range, depth, rep) group: the fraction of substrates
with any usable signal, the r-squared of the fit between the two count-based
ddG estimates, and the composite accuracy score (r-squared * frac_obs).`,
}

// set flags
func init() {
	summaryCmd.Flags().StringP("input", "i", "", "path to the observation table <CSV>")
	summaryCmd.Flags().Float64("rt", config.DefaultRT, "RT in kcal/mol")

	summaryCmd.MarkFlagRequired("input")

	RootCmd.AddCommand(summaryCmd)
}
