package betseq

// test fixtures shared across the package tests. The synthetic table is
// small enough to reason about by hand: two affinity ranges, four real
// substrates plus the marker, two depths, two replicates. At the shallow
// depth the first substrate draws zero bound reads, so both of its
// count-based ddG estimates are non-finite; at the deep depth every
// substrate is observed.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testRT = 0.593

// syntheticRows builds the in-memory form of the synthetic table, raw
// columns only.
func syntheticRows() []Observation {
	var rows []Observation
	for _, ddgRange := range []float64{1, 2} {
		for _, depth := range []int{100, 10000} {
			for _, rep := range []int{1, 2} {
				for i := 0; i < 4; i++ {
					bound := 25 * depth / 100
					unbound := (i + 1) * 10 * depth / 100
					input := 20 * depth / 100
					if i == 0 && depth == 100 {
						bound = 0 // unsampled at shallow depth
					}
					rows = append(rows, Observation{
						DDGRange:     ddgRange,
						TotalSpecies: 1000,
						Dummy:        50,
						Depth:        depth,
						Rep:          rep,
						KD:           0.1 * float64(i+1),
						BoundConc:    float64(i + 2), // 2, 3, 4, 5
						UnboundConc:  float64(uint(1) << uint(i)), // 1, 2, 4, 8
						InputConc:    float64(uint(1) << uint(i)),
						BoundCount:   bound,
						UnboundCount: unbound,
						InputCount:   input,
					})
				}
				// the high-concentration marker substrate
				rows = append(rows, Observation{
					DDGRange:     ddgRange,
					TotalSpecies: 1000,
					Dummy:        50,
					Depth:        depth,
					Rep:          rep,
					KD:           0.01,
					BoundConc:    100,
					UnboundConc:  100,
					InputConc:    200,
					BoundCount:   40 * depth / 100,
					UnboundCount: 40 * depth / 100,
					InputCount:   40 * depth / 100,
					DummyBool:    true,
				})
			}
		}
	}
	return rows
}

// writeSyntheticCSV writes the synthetic table to a temp CSV and returns
// its path.
func writeSyntheticCSV(t *testing.T) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("ddG_range,total_species,dummy,depth,rep,k_d,bound_conc,unbound_conc,input_conc,bound_count,unbound_count,input_count,dummy_bool\n")
	for _, o := range syntheticRows() {
		fmt.Fprintf(&b, "%g,%d,%d,%d,%d,%g,%g,%g,%g,%d,%d,%d,%s\n",
			o.DDGRange, o.TotalSpecies, o.Dummy, o.Depth, o.Rep, o.KD,
			o.BoundConc, o.UnboundConc, o.InputConc,
			o.BoundCount, o.UnboundCount, o.InputCount,
			rBool(o.DummyBool))
	}

	return writeFile(t, "table.csv", b.String())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// rBool formats a bool the way the upstream R simulator writes it.
func rBool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}
