package csv_parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kevinnayar/mmftostrava/pkg/domain/activity"
)

// Column names of the MapMyFitness workout export.
const (
	ColumnActivityType = "Activity Type"
	ColumnWorkoutDate  = "Workout Date"
	ColumnWorkoutTime  = "Workout Time (seconds)"
	ColumnDistance     = "Distance (mi)"
	ColumnCalories     = "Calories Burned (kcal)"
)

// ActivityTypeRun is the only activity type that is converted. The match is exact.
const ActivityTypeRun = "Run"

const (
	metersPerMile = 1609.34

	// Exports only carry a date, so every run is assumed to start at 08:00 at
	// a fixed UTC-8 offset.
	workoutTimeOfDay = 8 * time.Hour

	isoLayout         = "2006-01-02T15:04:05.000Z"
	displayDateLayout = "01/02/2006"
)

var workoutZone = time.FixedZone("CST", -8*60*60)

var dateLayouts = []string{
	"Jan 2, 2006",
	"Jan 2 2006",
	"1/2/2006",
	"2006-01-02",
}

var monthAbbreviations = []string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

var (
	errNotNumeric = errors.New("not a number")
	errOutOfRange = errors.New("out of range")
)

// ConvertRows maps every "Run" row to an activity record, in row order.
// Rows of any other activity type are dropped.
func ConvertRows(rows []TabularRecord, newID func() string) ([]activity.Record, error) {
	var records []activity.Record

	for i, row := range rows {
		if row[ColumnActivityType] != ActivityTypeRun {
			continue
		}
		// Data rows start on the second line of the file.
		line := i + 2

		start, err := ParseWorkoutDate(row[ColumnWorkoutDate])
		if err != nil {
			return nil, &DateParseError{Line: line, Value: row[ColumnWorkoutDate], Err: err}
		}

		elapsed, err := parseInteger(row[ColumnWorkoutTime])
		if err != nil {
			return nil, &FieldParseError{Line: line, Field: ColumnWorkoutTime, Value: row[ColumnWorkoutTime], Err: err}
		}

		distance, err := MilesToMeters(row[ColumnDistance])
		if err != nil {
			return nil, &FieldParseError{Line: line, Field: ColumnDistance, Value: row[ColumnDistance], Err: err}
		}

		calories, err := parseInteger(row[ColumnCalories])
		if err != nil {
			return nil, &FieldParseError{Line: line, Field: ColumnCalories, Value: row[ColumnCalories], Err: err}
		}

		name := fmt.Sprintf("Run on %s", start.Format(displayDateLayout))
		records = append(records, activity.Record{
			ID:       newID(),
			Activity: activity.NewRun(name, FormatISO(start), elapsed, distance, calories),
		})
	}

	return records, nil
}

// ParseWorkoutDate parses an export date such as "Sept. 3, 2019" and returns
// 08:00 of that day at the fixed workout offset.
func ParseWorkoutDate(value string) (time.Time, error) {
	clean := normalizeMonth(strings.TrimSpace(strings.ReplaceAll(value, ".", "")))

	for _, layout := range dateLayouts {
		day, err := time.ParseInLocation(layout, clean, workoutZone)
		if err == nil {
			return day.Add(workoutTimeOfDay), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// FormatISO renders t the way start dates are stored: UTC with milliseconds.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// normalizeMonth rewrites a leading month word ("Sept", "June", "January")
// to its three-letter abbreviation so a single layout family can parse it.
func normalizeMonth(s string) string {
	word, rest, _ := strings.Cut(s, " ")
	if len(word) < 3 {
		return s
	}
	prefix := strings.ToLower(word[:3])
	for _, abbr := range monthAbbreviations {
		if prefix == abbr && isLetters(word) {
			return strings.TrimSpace(word[:3] + " " + rest)
		}
	}
	return s
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// MilesToMeters converts a mileage string to whole meters, truncating toward zero.
func MilesToMeters(value string) (int, error) {
	miles, err := parseFloat(value)
	if err != nil {
		return 0, err
	}
	return truncateToInt(miles * metersPerMile)
}

func parseFloat(value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumeric
	}
	return f, nil
}

// parseInteger accepts base-10 integers. Decimal values are truncated, which
// is what exports that write "1834.0" for a duration expect.
func parseInteger(value string) (int, error) {
	s := strings.TrimSpace(value)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := parseFloat(s)
	if err != nil {
		return 0, err
	}
	return truncateToInt(f)
}

// truncateToInt drops the fraction of f. Values that do not fit in an int
// are rejected rather than converted.
func truncateToInt(f float64) (int, error) {
	t := math.Trunc(f)
	if t < math.MinInt || t >= -math.MinInt {
		return 0, errOutOfRange
	}
	return int(t), nil
}
