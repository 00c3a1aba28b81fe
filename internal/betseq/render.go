package betseq

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// RenderConfig holds every knob the renderer needs. It is passed explicitly
// to RenderAll rather than living in package globals, so two renders with
// different settings cannot interfere.
type RenderConfig struct {
	// OutDir is the directory the chart PNGs are written into
	OutDir string

	// TileWidth and TileHeight size one facet panel
	TileWidth  vg.Length
	TileHeight vg.Length

	// Bins is the histogram bin count per panel
	Bins int

	// DummyFacet is the single marker position shown in count-based
	// charts. Showing every position would multiply the facet count
	DummyFacet int
}

// chart names one output artifact and the function that draws it.
type chart struct {
	file string
	draw func(path string) error
}

// RenderAll writes every summary chart into cfg.OutDir. The charts are
// independent, so a failed write is logged and recorded but does not stop
// the remaining charts; the combined error is returned at the end.
//
// rows must already have both Derive stages applied. Concentration charts
// drop the marker substrate; count charts fix the marker at cfg.DummyFacet.
func RenderAll(rows []Observation, summaries []FitSummary, cfg RenderConfig) error {
	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	conc := ExcludeDummy(rows)
	counts := FilterDummyPosition(rows, cfg.DummyFacet)

	charts := []chart{
		{"input_conc.png", func(p string) error {
			return concHistogram(conc, cfg, p, "log10(input conc)", func(o Observation) float64 { return o.InputConc })
		}},
		{"bound_conc.png", func(p string) error {
			return concHistogram(conc, cfg, p, "log10(bound conc)", func(o Observation) float64 { return o.BoundConc })
		}},
		{"unbound_conc.png", func(p string) error {
			return concHistogram(conc, cfg, p, "log10(unbound conc)", func(o Observation) float64 { return o.UnboundConc })
		}},
		{"true_ddg.png", func(p string) error {
			return ddgHistogram(conc, cfg, p, "true ddG (kcal/mol)", func(o Observation) float64 { return o.TrueDDG })
		}},
		{"input_conc_ddg.png", func(p string) error {
			return ddgHistogram(conc, cfg, p, "input conc ddG (kcal/mol)", func(o Observation) float64 { return o.InputConcDDG })
		}},
		{"conc_vs_kd.png", func(p string) error {
			return concVsKD(conc, cfg, p)
		}},
		{"ddg_agreement.png", func(p string) error {
			return ddgAgreement(conc, cfg, p)
		}},
		{"bound_count.png", func(p string) error {
			return countHistogram(counts, cfg, p, "bound reads", func(o Observation) int { return o.BoundCount })
		}},
		{"unbound_count.png", func(p string) error {
			return countHistogram(counts, cfg, p, "unbound reads", func(o Observation) int { return o.UnboundCount })
		}},
		{"input_count.png", func(p string) error {
			return countHistogram(counts, cfg, p, "input reads", func(o Observation) int { return o.InputCount })
		}},
		{"unbound_count_ddg.png", func(p string) error {
			return ddgHistogram(counts, cfg, p, "unbound count ddG (kcal/mol)", func(o Observation) float64 { return o.UnboundCountDDG })
		}},
		{"input_count_ddg.png", func(p string) error {
			return ddgHistogram(counts, cfg, p, "input count ddG (kcal/mol)", func(o Observation) float64 { return o.InputCountDDG })
		}},
		{"count_ddg_fit.png", func(p string) error {
			return countFit(counts, cfg, p)
		}},
		{"score_boxplot.png", func(p string) error {
			return scoreBoxplot(summaries, cfg, p)
		}},
	}

	var errs error
	for _, c := range charts {
		path := filepath.Join(cfg.OutDir, c.file)
		if err := c.draw(path); err != nil {
			logger.Error("chart failed",
				zap.String("chart", c.file),
				zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", c.file, err))
			continue
		}
		logger.Debug("wrote chart", zap.String("path", path))
	}
	return errs
}

// condTitle labels a panel faceted by ddG range (rows) and library size
// (columns).
func condTitle(r, c float64) string {
	return fmt.Sprintf("range %g, n %g", r, c)
}

func facetByCondition(rows []Observation) facetGrid[Observation] {
	return facetBy(rows,
		func(o Observation) float64 { return o.DDGRange },
		func(o Observation) float64 { return float64(o.TotalSpecies) })
}

// concHistogram draws per-condition histograms of one concentration column
// on a log10 scale. Depleted (zero) concentrations cannot be shown on a log
// axis and are dropped from the binning.
func concHistogram(rows []Observation, cfg RenderConfig, path, xlabel string, get func(Observation) float64) error {
	g := facetByCondition(rows)
	return g.writePNG(cfg, path, condTitle,
		func(p *plot.Plot) {
			p.X.Label.Text = xlabel
			p.Y.Label.Text = "substrates"
		},
		func(p *plot.Plot, items []Observation) error {
			var vals plotter.Values
			for _, o := range items {
				if v := get(o); v > 0 {
					vals = append(vals, math.Log10(v))
				}
			}
			return addHistogram(p, vals, cfg.Bins, 0)
		})
}

// ddgHistogram draws per-condition histograms of one derived ddG column.
// Non-finite values (depleted or unsampled substrates) are filtered first,
// never coerced.
func ddgHistogram(rows []Observation, cfg RenderConfig, path, xlabel string, get func(Observation) float64) error {
	g := facetByCondition(rows)
	return g.writePNG(cfg, path, condTitle,
		func(p *plot.Plot) {
			p.X.Label.Text = xlabel
			p.Y.Label.Text = "substrates"
		},
		func(p *plot.Plot, items []Observation) error {
			var vals plotter.Values
			for _, o := range items {
				if v := get(o); isFinite(v) {
					vals = append(vals, v)
				}
			}
			return addHistogram(p, vals, cfg.Bins, 0)
		})
}

// concVsKD draws the log-log scatter of sublibrary concentration against the
// substrate's dissociation constant, one colored series per fraction.
func concVsKD(rows []Observation, cfg RenderConfig, path string) error {
	g := facetByCondition(rows)
	return g.writePNG(cfg, path, condTitle,
		func(p *plot.Plot) {
			p.X.Label.Text = "Kd"
			p.Y.Label.Text = "concentration"
			p.X.Scale = plot.LogScale{}
			p.X.Tick.Marker = plot.LogTicks{Prec: -1}
			p.Y.Scale = plot.LogScale{}
			p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		},
		func(p *plot.Plot, items []Observation) error {
			series := []struct {
				name string
				get  func(Observation) float64
			}{
				{"bound", func(o Observation) float64 { return o.BoundConc }},
				{"unbound", func(o Observation) float64 { return o.UnboundConc }},
			}
			for i, se := range series {
				var xys plotter.XYs
				for _, o := range items {
					if v := se.get(o); v > 0 && o.KD > 0 {
						xys = append(xys, plotter.XY{X: o.KD, Y: v})
					}
				}
				if len(xys) == 0 {
					continue
				}
				s, err := plotter.NewScatter(xys)
				if err != nil {
					return err
				}
				s.GlyphStyle.Color = plotutil.Color(i)
				s.GlyphStyle.Radius = vg.Points(1)
				s.GlyphStyle.Shape = draw.CircleGlyph{}
				p.Add(s)
				p.Legend.Add(se.name, s)
			}
			p.Legend.Top = true
			return nil
		})
}

// ddgAgreement scatters the two concentration-derived ddG estimates against
// each other, with dashed reference lines at plus and minus half the panel's
// simulated affinity range.
func ddgAgreement(rows []Observation, cfg RenderConfig, path string) error {
	g := facetByCondition(rows)
	return g.writePNG(cfg, path, condTitle,
		func(p *plot.Plot) {
			p.X.Label.Text = "true ddG"
			p.Y.Label.Text = "input conc ddG"
		},
		func(p *plot.Plot, items []Observation) error {
			var xys plotter.XYs
			for _, o := range items {
				if isFinite(o.TrueDDG) && isFinite(o.InputConcDDG) {
					xys = append(xys, plotter.XY{X: o.TrueDDG, Y: o.InputConcDDG})
				}
			}
			if len(xys) == 0 {
				return nil
			}
			s, err := plotter.NewScatter(xys)
			if err != nil {
				return err
			}
			s.GlyphStyle.Color = plotutil.Color(0)
			s.GlyphStyle.Radius = vg.Points(1)
			s.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(s)

			half := items[0].DDGRange / 2
			for _, y := range []float64{-half, half} {
				ref := plotter.NewFunction(constant(y))
				ref.LineStyle.Color = plotutil.Color(1)
				ref.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
				p.Add(ref)
			}
			return nil
		})
}

// countHistogram draws per-condition histograms of one raw read-count
// column, one colored overlay per sequencing depth.
func countHistogram(rows []Observation, cfg RenderConfig, path, xlabel string, get func(Observation) int) error {
	g := facetByCondition(rows)
	return g.writePNG(cfg, path, condTitle,
		func(p *plot.Plot) {
			p.X.Label.Text = xlabel
			p.Y.Label.Text = "substrates"
		},
		func(p *plot.Plot, items []Observation) error {
			byDepth := make(map[int]plotter.Values)
			for _, o := range items {
				byDepth[o.Depth] = append(byDepth[o.Depth], float64(get(o)))
			}
			depths := make([]int, 0, len(byDepth))
			for d := range byDepth {
				depths = append(depths, d)
			}
			sort.Ints(depths)

			for i, d := range depths {
				if err := addHistogram(p, byDepth[d], cfg.Bins, i); err != nil {
					return err
				}
				p.Legend.Add(fmt.Sprintf("depth %d", d), legendLine(i))
			}
			p.Legend.Top = true
			return nil
		})
}

// countFit scatters the two count-derived ddG estimates with an ordinary
// least squares fit line per panel, faceted by affinity range and replicate.
// Only finite pairs are drawn or fit.
func countFit(rows []Observation, cfg RenderConfig, path string) error {
	g := facetBy(rows,
		func(o Observation) float64 { return o.DDGRange },
		func(o Observation) float64 { return float64(o.Rep) })
	return g.writePNG(cfg, path,
		func(r, c float64) string { return fmt.Sprintf("range %g, rep %g", r, c) },
		func(p *plot.Plot) {
			p.X.Label.Text = "input count ddG"
			p.Y.Label.Text = "unbound count ddG"
		},
		func(p *plot.Plot, items []Observation) error {
			var xys plotter.XYs
			var xs, ys []float64
			for _, o := range items {
				if finitePair(o) {
					xys = append(xys, plotter.XY{X: o.InputCountDDG, Y: o.UnboundCountDDG})
					xs = append(xs, o.InputCountDDG)
					ys = append(ys, o.UnboundCountDDG)
				}
			}
			if len(xys) == 0 {
				return nil
			}
			s, err := plotter.NewScatter(xys)
			if err != nil {
				return err
			}
			s.GlyphStyle.Color = plotutil.Color(0)
			s.GlyphStyle.Radius = vg.Points(1)
			s.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(s)

			if len(xs) >= 2 {
				alpha, beta := stat.LinearRegression(xs, ys, nil, false)
				fit := plotter.NewFunction(func(x float64) float64 { return alpha + beta*x })
				fit.LineStyle.Color = plotutil.Color(1)
				p.Add(fit)
			}
			return nil
		})
}

// scoreBoxplot draws the composite accuracy score (r² * frac_obs) against
// the affinity range, one box per range over that condition's replicates,
// faceted by library size and sequencing depth.
func scoreBoxplot(summaries []FitSummary, cfg RenderConfig, path string) error {
	g := facetBy(summaries,
		func(s FitSummary) float64 { return float64(s.TotalSpecies) },
		func(s FitSummary) float64 { return float64(s.Depth) })
	return g.writePNG(cfg, path,
		func(r, c float64) string { return fmt.Sprintf("n %g, depth %g", r, c) },
		func(p *plot.Plot) {
			p.X.Label.Text = "ddG range"
			p.Y.Label.Text = "r2 * frac_obs"
		},
		func(p *plot.Plot, items []FitSummary) error {
			byRange := make(map[float64]plotter.Values)
			for _, s := range items {
				byRange[s.DDGRange] = append(byRange[s.DDGRange], s.Score())
			}
			ranges := make([]float64, 0, len(byRange))
			for r := range byRange {
				ranges = append(ranges, r)
			}
			sort.Float64s(ranges)

			labels := make([]string, len(ranges))
			for i, r := range ranges {
				b, err := plotter.NewBoxPlot(vg.Points(16), float64(i), byRange[r])
				if err != nil {
					return err
				}
				p.Add(b)
				labels[i] = fmt.Sprintf("%g", r)
			}
			p.NominalX(labels...)
			return nil
		})
}

// addHistogram bins vals and adds the histogram to p with the i-th palette
// color. An empty slice adds nothing: an empty panel is not an error.
func addHistogram(p *plot.Plot, vals plotter.Values, bins, i int) error {
	if len(vals) == 0 {
		return nil
	}
	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return err
	}
	if i == 0 {
		h.FillColor = plotutil.Color(0)
	} else {
		// overlays keep only their outline so earlier series stay visible
		h.FillColor = nil
	}
	h.LineStyle.Color = plotutil.Color(i)
	p.Add(h)
	return nil
}

// legendLine is a thumbnail-only line for legend entries whose plotters
// (histograms) have no thumbnail of their own.
func legendLine(i int) *plotter.Line {
	l := &plotter.Line{}
	l.LineStyle = plotter.DefaultLineStyle
	l.LineStyle.Color = plotutil.Color(i)
	return l
}

func constant(y float64) func(float64) float64 {
	return func(float64) float64 { return y }
}
