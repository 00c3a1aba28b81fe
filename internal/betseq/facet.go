package betseq

import (
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// facetGrid lays items out on a two-dimensional grid of panels keyed by a
// pair of design-key values, the chart analog of a grouped table. Every
// chart in this package is one grid written to one PNG.
type facetGrid[T any] struct {
	rowKeys []float64
	colKeys []float64
	cells   map[[2]float64][]T
}

// facetBy splits items into grid cells. rowKey and colKey extract the two
// facet axes; keys are sorted ascending so the grid layout is deterministic.
func facetBy[T any](items []T, rowKey, colKey func(T) float64) facetGrid[T] {
	g := facetGrid[T]{cells: make(map[[2]float64][]T)}
	seenRow := make(map[float64]bool)
	seenCol := make(map[float64]bool)

	for _, it := range items {
		r, c := rowKey(it), colKey(it)
		if !seenRow[r] {
			seenRow[r] = true
			g.rowKeys = append(g.rowKeys, r)
		}
		if !seenCol[c] {
			seenCol[c] = true
			g.colKeys = append(g.colKeys, c)
		}
		k := [2]float64{r, c}
		g.cells[k] = append(g.cells[k], it)
	}

	sort.Float64s(g.rowKeys)
	sort.Float64s(g.colKeys)
	return g
}

// writePNG renders the grid to a single PNG at path. title labels each
// panel from its facet keys, setup applies shared axis settings to every
// panel, and fill draws the cell's items into it. Empty cells stay blank.
func (g facetGrid[T]) writePNG(
	cfg RenderConfig,
	path string,
	title func(row, col float64) string,
	setup func(p *plot.Plot),
	fill func(p *plot.Plot, items []T) error,
) error {
	if len(g.rowKeys) == 0 || len(g.colKeys) == 0 {
		return fmt.Errorf("no data to facet for %s", path)
	}

	plots := make([][]*plot.Plot, len(g.rowKeys))
	for i, r := range g.rowKeys {
		plots[i] = make([]*plot.Plot, len(g.colKeys))
		for j, c := range g.colKeys {
			items, ok := g.cells[[2]float64{r, c}]
			if !ok {
				continue
			}

			p := plot.New()
			p.Title.Text = title(r, c)
			p.Title.TextStyle.Font.Size = vg.Points(9)
			if setup != nil {
				setup(p)
			}
			if err := fill(p, items); err != nil {
				return fmt.Errorf("panel %s: %w", p.Title.Text, err)
			}
			plots[i][j] = p
		}
	}

	img := vgimg.New(
		cfg.TileWidth*vg.Length(len(g.colKeys)),
		cfg.TileHeight*vg.Length(len(g.rowKeys)),
	)
	canvases := plot.Align(plots, draw.Tiles{
		Rows: len(g.rowKeys),
		Cols: len(g.colKeys),
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}, draw.New(img))

	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] != nil {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
