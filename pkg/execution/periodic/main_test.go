package periodic

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// This catches cron timing goroutines left running after Stop.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
