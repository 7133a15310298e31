package csv_parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedID() func() string {
	n := 0
	ids := []string{"id-1", "id-2", "id-3", "id-4"}
	return func() string {
		id := ids[n]
		n++
		return id
	}
}

func runRow(date, seconds, miles, kcal string) TabularRecord {
	return TabularRecord{
		ColumnActivityType: "Run",
		ColumnWorkoutDate:  date,
		ColumnWorkoutTime:  seconds,
		ColumnDistance:     miles,
		ColumnCalories:     kcal,
	}
}

func TestMilesToMeters_Truncates(t *testing.T) {
	tests := []struct {
		miles    string
		expected int
	}{
		{"1", 1609},
		{"1.0", 1609},
		{"2", 3218},
		{"0.0006", 0},
		{"0", 0},
		{"3.1", 4988},
		{" 26.2 ", 42164},
	}

	for _, tt := range tests {
		t.Run(tt.miles, func(t *testing.T) {
			meters, err := MilesToMeters(tt.miles)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, meters)
		})
	}
}

func TestMilesToMeters_RejectsNonNumeric(t *testing.T) {
	for _, v := range []string{"", "abc", "NaN", "Inf"} {
		_, err := MilesToMeters(v)
		assert.Error(t, err, "value %q", v)
	}
}

func TestMilesToMeters_RejectsOverflow(t *testing.T) {
	for _, v := range []string{"1e300", "-1e300", "6e15"} {
		_, err := MilesToMeters(v)
		assert.ErrorIs(t, err, errOutOfRange, "value %q", v)
	}
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr error
	}{
		{"60", 60, nil},
		{" 1834.9 ", 1834, nil},
		{"-3.7", -3, nil},
		{"99999999999999999999", 0, errOutOfRange},
		{"-99999999999999999999", 0, errOutOfRange},
		{"9.3e18", 0, errOutOfRange},
		{"sixty", 0, errNotNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseInteger(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWorkoutDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jan. 5, 2020", "2020-01-05T16:00:00.000Z"},
		{"Sept. 12, 2019", "2019-09-12T16:00:00.000Z"},
		{"May 3, 2020", "2020-05-03T16:00:00.000Z"},
		{"June 30, 2021", "2021-06-30T16:00:00.000Z"},
		{"Dec. 31, 2020", "2020-12-31T16:00:00.000Z"},
		{"2/29/2020", "2020-02-29T16:00:00.000Z"},
		{"2020-07-04", "2020-07-04T16:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			start, err := ParseWorkoutDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, FormatISO(start))
		})
	}
}

func TestParseWorkoutDate_Invalid(t *testing.T) {
	for _, v := range []string{"", "yesterday", "Foo. 5, 2020", "Feb. 30, 2020", "13/01/2020"} {
		_, err := ParseWorkoutDate(v)
		assert.Error(t, err, "value %q", v)
	}
}

func TestConvertRows_OnlyRuns(t *testing.T) {
	rows := []TabularRecord{
		{ColumnActivityType: "Walk"},
		runRow("Jan. 5, 2020", "60", "1", "100"),
		{ColumnActivityType: "run"},
		{ColumnActivityType: "Run "},
		runRow("Jan. 6, 2020", "120", "2", "200"),
		{ColumnActivityType: "Bike Ride"},
	}

	records, err := ConvertRows(rows, fixedID())
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, "Run on 01/05/2020", first.Name)
	assert.Equal(t, first.Name, first.Description)
	assert.Equal(t, "Running", first.Type)
	assert.Equal(t, "Run", first.SportType)
	assert.Equal(t, "2020-01-05T16:00:00.000Z", first.StartDateLocal)
	assert.Equal(t, 60, first.ElapsedTime)
	assert.Equal(t, 1609, first.Distance)
	assert.Equal(t, 100, first.Calories)

	assert.Equal(t, "id-2", records[1].ID)
	assert.Equal(t, "Run on 01/06/2020", records[1].Name)
	assert.Equal(t, 3218, records[1].Distance)
}

func TestConvertRows_NoRuns(t *testing.T) {
	records, err := ConvertRows([]TabularRecord{{ColumnActivityType: "Walk"}}, fixedID())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestConvertRows_DecimalIntegersTruncate(t *testing.T) {
	records, err := ConvertRows([]TabularRecord{runRow("Jan. 5, 2020", "1834.9", "1", "99.5")}, fixedID())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, 1834, records[0].ElapsedTime)
	assert.Equal(t, 99, records[0].Calories)
}

func TestConvertRows_Errors(t *testing.T) {
	t.Run("bad date", func(t *testing.T) {
		rows := []TabularRecord{{ColumnActivityType: "Walk"}, runRow("not a date", "60", "1", "100")}

		_, err := ConvertRows(rows, fixedID())
		var dateErr *DateParseError
		require.True(t, errors.As(err, &dateErr), "expected DateParseError, got %v", err)
		assert.Equal(t, 3, dateErr.Line)
		assert.Equal(t, "not a date", dateErr.Value)
	})

	fieldCases := []struct {
		name  string
		row   TabularRecord
		field string
	}{
		{"bad duration", runRow("Jan. 5, 2020", "sixty", "1", "100"), ColumnWorkoutTime},
		{"bad distance", runRow("Jan. 5, 2020", "60", "", "100"), ColumnDistance},
		{"bad calories", runRow("Jan. 5, 2020", "60", "1", "lots"), ColumnCalories},
		{"duration overflow", runRow("Jan. 5, 2020", "99999999999999999999", "1", "100"), ColumnWorkoutTime},
		{"distance overflow", runRow("Jan. 5, 2020", "60", "1e300", "100"), ColumnDistance},
	}
	for _, tc := range fieldCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ConvertRows([]TabularRecord{tc.row}, fixedID())
			var fieldErr *FieldParseError
			require.True(t, errors.As(err, &fieldErr), "expected FieldParseError, got %v", err)
			assert.Equal(t, tc.field, fieldErr.Field)
			assert.Equal(t, 2, fieldErr.Line)
		})
	}
}
