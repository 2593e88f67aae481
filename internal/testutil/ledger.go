// Package testutil provides shared fixtures for valet's tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/yjpartners/valet/internal/ledger"
)

// SetupLedger creates an in-memory, fully migrated usage ledger that
// closes itself when the test ends.
func SetupLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	l, err := ledger.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test ledger: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })

	if err := l.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test ledger: %v", err)
	}
	return l
}

// SeedUsage records one usage row at the given time, failing the test
// on error, and returns the booked cost.
func SeedUsage(t *testing.T, l *ledger.Ledger, at time.Time, project, model string, in, out int64) float64 {
	t.Helper()

	cost, err := l.RecordAt(context.Background(), at, project, model, in, out)
	if err != nil {
		t.Fatalf("failed to seed usage: %v", err)
	}
	return cost
}
