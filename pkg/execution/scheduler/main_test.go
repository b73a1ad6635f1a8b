package scheduler

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// This catches runner goroutines left parked in Run.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
