// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"

	"github.com/iwvelando/deal-analyzer/internal/report"
)

// FindReport finds a deal report by name in the results slice.
// Returns a pointer to the report if found, nil otherwise.
func FindReport(results []report.Report, name string) *report.Report {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// AssertClose fails the test when got is further than tolerance from expected.
func AssertClose(t *testing.T, name string, got, expected, tolerance float64) {
	t.Helper()
	if math.Abs(got-expected) > tolerance {
		t.Errorf("%s = %.6f, expected %.6f (±%g)", name, got, expected, tolerance)
	}
}
