package csv_parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadRows(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected [][]string
		numCols  int
	}{
		{
			name:     "empty",
			rows:     nil,
			expected: [][]string{},
			numCols:  0,
		},
		{
			name:     "already rectangular",
			rows:     [][]string{{"a", "b"}, {"c", "d"}},
			expected: [][]string{{"a", "b"}, {"c", "d"}},
			numCols:  2,
		},
		{
			name:     "short rows padded at the end",
			rows:     [][]string{{"a", "b", "c"}, {"d"}, {"e", "f"}},
			expected: [][]string{{"a", "b", "c"}, {"d", "", ""}, {"e", "f", ""}},
			numCols:  3,
		},
		{
			name:     "longest row is not the first",
			rows:     [][]string{{"a"}, {"b", "c", "d", "e"}},
			expected: [][]string{{"a", "", "", ""}, {"b", "c", "d", "e"}},
			numCols:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			padded, numCols := PadRows(tt.rows)
			assert.Equal(t, tt.numCols, numCols)
			assert.Equal(t, tt.expected, padded)
			for _, row := range padded {
				assert.Len(t, row, numCols)
			}
		})
	}
}

func TestPadRows_DoesNotMutateInput(t *testing.T) {
	short := []string{"x"}
	rows := [][]string{{"a", "b"}, short}

	PadRows(rows)
	assert.Equal(t, []string{"x"}, short)
}

func TestParseGrid_RaggedRows(t *testing.T) {
	raw := "Activity Type,Workout Date,Notes\nRun,\"Jan. 5, 2020\"\nWalk\n"

	grid, err := ParseGrid(strings.NewReader(raw), ',')
	require.NoError(t, err)

	assert.Equal(t, 3, grid.NumRows)
	assert.Equal(t, 3, grid.NumCols)
	assert.Equal(t, []string{"Run", "Jan. 5, 2020", ""}, grid.Rows[1])
	assert.Equal(t, []string{"Walk", "", ""}, grid.Rows[2])
}

func TestParseGrid_CustomDelimiter(t *testing.T) {
	grid, err := ParseGrid(strings.NewReader("a;b\n1;2;3\n"), ';')
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"a", "b", ""}, {"1", "2", "3"}}, grid.Rows)
}

func TestParseGrid_StripsByteOrderMark(t *testing.T) {
	grid, err := ParseGrid(strings.NewReader("\ufeffActivity Type\nRun\n"), ',')
	require.NoError(t, err)

	assert.Equal(t, "Activity Type", grid.Rows[0][0])
}

func TestGridRecords_RequiresHeaderAndData(t *testing.T) {
	for _, raw := range []string{"", "Activity Type,Workout Date\n"} {
		grid, err := ParseGrid(strings.NewReader(raw), ',')
		require.NoError(t, err)

		_, err = grid.Records()
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("Records() on %q: expected ErrMalformedInput, got %v", raw, err)
		}
	}
}

func TestGridRecords_ZipsHeaders(t *testing.T) {
	grid, err := ParseGrid(strings.NewReader("a,b,a\n1,2,3\n4\n"), ',')
	require.NoError(t, err)

	records, err := grid.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Duplicate header "a": the rightmost column wins.
	assert.Equal(t, TabularRecord{"a": "3", "b": "2"}, records[0])
	assert.Equal(t, TabularRecord{"a": "", "b": ""}, records[1])
}
