package library

import (
	"time"

	"github.com/sasha-s/go-deadlock"
)

// ValidateSaneExecutionTime arms a watchdog for the calling section. If the
// returned func is not called within SaneExecutionTimeout, go-deadlock reports
// the stuck goroutine and, with its default handler, exits the process. Arm it
// around work with a bounded running time, such as a single verification,
// never around work that grows with its input.
func ValidateSaneExecutionTime() func() {
	mu := deadlock.Mutex{}
	mu.Lock()
	go func() {
		mu.Lock()
		mu.Unlock()
	}()
	return func() {
		mu.Unlock()
	}
}

// SaneExecutionTimeout is how long a section armed with
// ValidateSaneExecutionTime may run. It is go-deadlock's DeadlockTimeout, so it
// also bounds how long any deadlock mutex may be waited on.
func SaneExecutionTimeout() time.Duration {
	return deadlock.Opts.DeadlockTimeout
}

// SetSaneExecutionTimeout replaces SaneExecutionTimeout for every section
// armed afterwards. Zero disables the check. Call it during startup, before
// any goroutine takes a deadlock mutex.
func SetSaneExecutionTimeout(d time.Duration) {
	deadlock.Opts.DeadlockTimeout = d
}
