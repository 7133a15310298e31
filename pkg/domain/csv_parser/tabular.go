package csv_parser

import "fmt"

// TabularRecord is one data row keyed by header name.
type TabularRecord map[string]string

// Records pairs the header row with every following row.
// Duplicate header names are not disambiguated: the rightmost column wins.
func (g *Grid) Records() ([]TabularRecord, error) {
	if g.NumRows < 2 {
		return nil, fmt.Errorf("%w: csv has %d rows, need a header row and at least one data row", ErrMalformedInput, g.NumRows)
	}

	headers := g.Rows[0]
	records := make([]TabularRecord, 0, g.NumRows-1)
	for _, row := range g.Rows[1:] {
		record := make(TabularRecord, len(headers))
		for i, value := range row {
			record[headers[i]] = value
		}
		records = append(records, record)
	}
	return records, nil
}
