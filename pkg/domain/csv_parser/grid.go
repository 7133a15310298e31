// Package csv_parser turns a MapMyFitness workout export into activity records.
package csv_parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Grid is a parsed export where every row has been padded to NumCols fields.
type Grid struct {
	Rows    [][]string
	NumCols int
	NumRows int
}

// ParseGrid reads every row of r without treating the first one as a header.
// Rows may have different lengths; shorter rows are padded with empty fields.
func ParseGrid(r io.Reader, delimiter rune) (*Grid, error) {
	// Exports saved from spreadsheet tools often start with a UTF-8 BOM, which
	// would otherwise end up inside the first header name.
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, row)
	}

	padded, numCols := PadRows(rows)
	return &Grid{
		Rows:    padded,
		NumCols: numCols,
		NumRows: len(padded),
	}, nil
}

// PadRows appends empty fields to every row shorter than the longest one.
// It returns the padded rows and that maximum length.
func PadRows(rows [][]string) ([][]string, int) {
	numCols := 0
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	filled := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) < numCols {
			padded := make([]string, numCols)
			copy(padded, row)
			row = padded
		}
		filled = append(filled, row)
	}
	return filled, numCols
}
