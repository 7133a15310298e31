package csv_parser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"github.com/kevinnayar/mmftostrava/pkg/domain/activity"
)

type normalizeScenario struct {
	raw     string
	records []activity.Record
	err     error
}

func (s *normalizeScenario) aWorkoutExport(doc *godog.DocString) error {
	s.raw = doc.Content
	return nil
}

func (s *normalizeScenario) theExportIsNormalized() error {
	s.records, s.err = Normalize(s.raw, ',')
	return nil
}

func (s *normalizeScenario) thereAreActivityRecords(n int) error {
	if s.err != nil {
		return fmt.Errorf("normalize failed: %w", s.err)
	}
	if len(s.records) != n {
		return fmt.Errorf("expected %d records, got %d", n, len(s.records))
	}
	return nil
}

func (s *normalizeScenario) recordHas(i, distance, elapsed, calories int) error {
	if i < 1 || i > len(s.records) {
		return fmt.Errorf("no record %d", i)
	}
	rec := s.records[i-1]
	if rec.Distance != distance || rec.ElapsedTime != elapsed || rec.Calories != calories {
		return fmt.Errorf("record %d: got distance %d, elapsed %d, calories %d", i, rec.Distance, rec.ElapsedTime, rec.Calories)
	}
	return nil
}

func (s *normalizeScenario) recordIsNamed(i int, name string) error {
	if i < 1 || i > len(s.records) {
		return fmt.Errorf("no record %d", i)
	}
	if got := s.records[i-1].Name; got != name {
		return fmt.Errorf("record %d: expected name %q, got %q", i, name, got)
	}
	return nil
}

func (s *normalizeScenario) failsWithMalformedInput() error {
	if !errors.Is(s.err, ErrMalformedInput) {
		return fmt.Errorf("expected malformed input, got %v", s.err)
	}
	return nil
}

func (s *normalizeScenario) failsWithDateError() error {
	var dateErr *DateParseError
	if !errors.As(s.err, &dateErr) {
		return fmt.Errorf("expected date error, got %v", s.err)
	}
	return nil
}

func initializeNormalizeScenario(sc *godog.ScenarioContext) {
	s := &normalizeScenario{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*s = normalizeScenario{}
		return ctx, nil
	})

	sc.Step(`^a workout export:$`, s.aWorkoutExport)
	sc.Step(`^the export is normalized$`, s.theExportIsNormalized)
	sc.Step(`^there are (\d+) activity records$`, s.thereAreActivityRecords)
	sc.Step(`^record (\d+) has distance (\d+), elapsed time (\d+) and calories (\d+)$`, s.recordHas)
	sc.Step(`^record (\d+) is named "([^"]*)"$`, s.recordIsNamed)
	sc.Step(`^normalization fails with malformed input$`, s.failsWithMalformedInput)
	sc.Step(`^normalization fails with a date error$`, s.failsWithDateError)
}

func TestNormalizeFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "normalize",
		ScenarioInitializer: initializeNormalizeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
