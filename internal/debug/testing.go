package debug

import (
	"log"
	"os"
	"testing"
)

// TestLogToStderr routes the debug log to stderr for the duration of the
// test, unless the debug log is already configured. It returns whether
// logging was switched on.
func TestLogToStderr(t testing.TB) bool {
	if opts.isEnabled {
		return false
	}

	opts.logger = log.New(os.Stderr, "", log.LstdFlags)
	opts.isEnabled = true
	t.Cleanup(func() {
		opts.logger = nil
		opts.isEnabled = false
	})

	return true
}
