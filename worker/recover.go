package worker

import (
	"fmt"
	"runtime/debug"
)

// RecoveryError carries a panic raised inside a worker, typically from a
// user transform running on the push path.
type RecoveryError struct {
	// Worker is the index of the worker that panicked.
	Worker int
	// PanicValue is the original value that was passed to panic().
	PanicValue any
	// StackTrace is the stack of the panicking goroutine.
	StackTrace string
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("worker %d: panic recovered: %v", e.Worker, e.PanicValue)
}

// Unwrap exposes a panic value that is itself an error.
func (e *RecoveryError) Unwrap() error {
	err, _ := e.PanicValue.(error)
	return err
}

func recoverInto(index int, err *error) {
	if r := recover(); r != nil {
		*err = &RecoveryError{
			Worker:     index,
			PanicValue: r,
			StackTrace: string(debug.Stack()),
		}
	}
}
