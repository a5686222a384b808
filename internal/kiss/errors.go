package kiss

import (
	"errors"
	"fmt"
)

var ErrInvalidRequest = errors.New("kiss: invalid attach request")

// StepError is returned by Attach. State is the last state reached before
// the failure; Err wraps the component sentinel and the OS error.
type StepError struct {
	State State
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("kiss: attach failed after %s: %v", e.State, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedAfter reports the last state reached by a failed attach, if err came from Attach.
func FailedAfter(err error) (State, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.State, true
	}
	return StateIdle, false
}
