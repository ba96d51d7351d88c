// Package hook turns one-shot async calls into observable state: Resource for
// reads that re-run when their inputs change, Form for mutations.
package hook

import (
	"errors"
	"fmt"
)

// FallbackError is reported when a failure carries no message.
const FallbackError = "An error occurred"

// ErrSubmitInFlight is recorded when Submit is called while a previous
// submission has not finished.
var ErrSubmitInFlight = errors.New("a submission is already in progress")

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackError
}

// guard runs fn and converts a panic into an error.
func guard[R any](fn func() (R, error)) (res R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}
