package csv_parser

import (
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/kevinnayar/mmftostrava/pkg/domain/activity"
)

// DefaultDelimiter is the separator used by MapMyFitness exports.
const DefaultDelimiter = ','

// Normalizer converts a raw export into activity records.
type Normalizer struct {
	Delimiter rune
	// NewID generates record identifiers. Defaults to random UUIDs.
	NewID func() string
}

// NewNormalizer returns a Normalizer for the given delimiter with random UUID ids.
func NewNormalizer(delimiter rune) *Normalizer {
	return &Normalizer{Delimiter: delimiter, NewID: uuid.NewString}
}

// Normalize parses raw text and returns one record per "Run" row.
func Normalize(raw string, delimiter rune) ([]activity.Record, error) {
	return NewNormalizer(delimiter).Normalize(strings.NewReader(raw))
}

// NormalizeReader is Normalize for an io.Reader.
func NormalizeReader(r io.Reader, delimiter rune) ([]activity.Record, error) {
	return NewNormalizer(delimiter).Normalize(r)
}

// Normalize runs the full pipeline: grid, tabular records, activity records.
func (n *Normalizer) Normalize(r io.Reader) ([]activity.Record, error) {
	delimiter := n.Delimiter
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	newID := n.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	grid, err := ParseGrid(r, delimiter)
	if err != nil {
		return nil, err
	}

	rows, err := grid.Records()
	if err != nil {
		return nil, err
	}

	return ConvertRows(rows, newID)
}
