package models

import (
	"errors"
	"fmt"
)

// ErrInsufficientHistory marks "not enough bars yet", a recoverable state
// distinct from broken data. For a single indicator it surfaces as an
// undefined value; at the screening level it excludes the instrument.
var ErrInsufficientHistory = errors.New("insufficient history")

// IntegrityError marks data that is wrong rather than merely short:
// non-monotonic dates, duplicate dates, a zero or negative low in a ratio
// denominator.
type IntegrityError struct {
	Symbol string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("data integrity fault for %s: %s", e.Symbol, e.Reason)
}

// IsIntegrityError reports whether err wraps an IntegrityError.
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
