package shade

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ReadCSV reads a CSV document with a header row into a Table.
//
// A column becomes a float column when every non-empty field parses as a
// number; empty fields read as NaN. Other columns, and those named in
// categorical, become categorical columns with categories in order of
// first appearance and empty fields as missing.
func ReadCSV(r io.Reader, categorical ...string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("shade: reading CSV header: %w", err)
	}
	names := slices.Clone(header)
	fields := make([][]string, len(names))

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("shade: reading CSV line %d: %w", line, err)
		}
		for i := range names {
			fields[i] = append(fields[i], strings.TrimSpace(rec[i]))
		}
	}

	cols := make([]Column, len(names))
	for i, name := range names {
		if !slices.Contains(categorical, name) {
			vals, bad := parseFloats(fields[i])
			if bad < 0 {
				cols[i] = Floats(name, vals)
				continue
			}
			if bad > 0 {
				Logger().Warn("shade: CSV column read as categorical",
					"column", name, "line", bad+2, "field", fields[i][bad])
			}
		}
		cols[i] = Categorical(name, fields[i])
	}

	Logger().Debug("shade: read CSV", "columns", len(cols), "rows", len(fields[0]))
	return NewTable(cols...)
}

// parseFloats parses every field as a float. It returns the index of the
// first field that is not a number, or -1.
func parseFloats(fields []string) ([]float64, int) {
	vals := make([]float64, len(fields))
	for i, f := range fields {
		if f == "" {
			vals[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, i
		}
		vals[i] = v
	}
	return vals, -1
}
