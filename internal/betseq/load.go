package betseq

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// input table columns. Lookup is by header name, so column order in the
// file does not matter
var requiredColumns = []string{
	"ddG_range",
	"total_species",
	"dummy",
	"depth",
	"rep",
	"k_d",
	"bound_conc",
	"unbound_conc",
	"input_conc",
	"bound_count",
	"unbound_count",
	"input_count",
	"dummy_bool",
}

// ReadObservations reads the full observation table from a CSV file at path.
// The first line must be a header naming every column in requiredColumns.
// A missing or unreadable file wraps ErrDataUnavailable; a bad row or cell
// returns a MalformedRowError with its line number.
func ReadObservations(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		// a ragged row fails csv's field-count check
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &MalformedRowError{Line: pe.Line, Err: err}
		}
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("%w: %s is empty", ErrDataUnavailable, path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &MalformedRowError{Line: 1, Column: name, Err: fmt.Errorf("column missing from header")}
		}
	}

	rows := make([]Observation, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2 // 1-based, after the header
		p := rowParser{record: rec, cols: cols, line: line}

		o := Observation{
			DDGRange:     p.float("ddG_range"),
			TotalSpecies: p.int("total_species"),
			Dummy:        p.int("dummy"),
			Depth:        p.int("depth"),
			Rep:          p.int("rep"),
			KD:           p.float("k_d"),
			BoundConc:    p.float("bound_conc"),
			UnboundConc:  p.float("unbound_conc"),
			InputConc:    p.float("input_conc"),
			BoundCount:   p.int("bound_count"),
			UnboundCount: p.int("unbound_count"),
			InputCount:   p.int("input_count"),
			DummyBool:    p.bool("dummy_bool"),
		}
		if p.err != nil {
			return nil, p.err
		}
		rows = append(rows, o)
	}

	logger.Debug("read observation table",
		zap.String("path", path),
		zap.Int("rows", len(rows)))

	return rows, nil
}

// rowParser pulls typed cells out of one CSV record, remembering the first
// failure so call sites stay flat.
type rowParser struct {
	record []string
	cols   map[string]int
	line   int
	err    error
}

func (p *rowParser) cell(column string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	i := p.cols[column]
	if i >= len(p.record) {
		p.err = &MalformedRowError{Line: p.line, Column: column, Err: fmt.Errorf("row has %d cells", len(p.record))}
		return "", false
	}
	return strings.TrimSpace(p.record[i]), true
}

func (p *rowParser) float(column string) float64 {
	c, ok := p.cell(column)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(c, 64)
	if err != nil {
		p.err = &MalformedRowError{Line: p.line, Column: column, Err: err}
	}
	return v
}

func (p *rowParser) int(column string) int {
	c, ok := p.cell(column)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(c)
	if err != nil {
		// simulators commonly write integral columns as floats (5e+04)
		f, ferr := strconv.ParseFloat(c, 64)
		if ferr != nil || f != float64(int(f)) {
			p.err = &MalformedRowError{Line: p.line, Column: column, Err: err}
			return 0
		}
		v = int(f)
	}
	return v
}

func (p *rowParser) bool(column string) bool {
	c, ok := p.cell(column)
	if !ok {
		return false
	}
	// accept R's TRUE/FALSE alongside Go's forms
	v, err := strconv.ParseBool(strings.ToLower(c))
	if err != nil {
		p.err = &MalformedRowError{Line: p.line, Column: column, Err: err}
	}
	return v
}
