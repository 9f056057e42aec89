package debug

import (
	"fmt"
	"log"
	"time"
)

// Tracef logs a scoped trace line when enabled is true
func Tracef(enabled bool, scope, format string, args ...interface{}) {
	if !enabled {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	log.Printf("[%s] %s: %s", timestamp, scope, fmt.Sprintf(format, args...))
}

// Timing logs the duration of an operation when enabled is true.
// Call the returned func when the operation finishes.
func Timing(enabled bool, operation string) func() {
	if !enabled {
		return func() {}
	}

	start := time.Now()
	Tracef(enabled, operation, "started")

	return func() {
		Tracef(enabled, operation, "completed in %v", time.Since(start))
	}
}
