// Package goroutine provides utilities for running functions with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// SafeGo launches a goroutine with panic recovery. If the goroutine panics,
// the panic is caught and logged with stack trace instead of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		_ = Run(log, name, fn)
	}()
}

// Run executes fn on the calling goroutine and converts a panic into an error.
// The notification fan-out uses it so one failing delivery cannot abort the rest.
func Run(log logger.Interface, name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("%s panicked: %v", name, r)
		}
	}()
	fn()
	return nil
}
