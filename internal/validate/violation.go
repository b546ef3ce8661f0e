package validate

import (
	"errors"
	"fmt"
)

// Violation reports one broken expectation.
type Violation struct {
	Check    string
	Expected any
	Actual   any
	Msg      string
}

func (e *Violation) Error() string {
	s := fmt.Sprintf("%s: expected %v, got %v", e.Check, e.Expected, e.Actual)
	if e.Msg != "" {
		s += " (" + e.Msg + ")"
	}
	return s
}

// AsViolation extracts a *Violation from err.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

func violation(check string, expected, actual any, msg string) *Violation {
	return &Violation{Check: check, Expected: expected, Actual: actual, Msg: msg}
}

// first runs checks in order and returns the first failure.
func first(checks ...func() error) error {
	for _, c := range checks {
		if err := c(); err != nil {
			return err
		}
	}
	return nil
}
