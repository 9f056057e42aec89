package letters

import (
	"errors"
	"fmt"
)

// DefaultMinArrears is the smallest amount that warrants a notice
const DefaultMinArrears = 100.0

// GeneratedComment is written to the COMMENTS column of a row that produced
// a letter
const GeneratedComment = "Letter generated successfully"

var (
	ErrMissingEssential = errors.New("missing policy number or policy holder")
	ErrArrearsTooLow    = errors.New("arrears amount below threshold")
	ErrNoAddress        = errors.New("no address available")
)

// RowError rejects a row. Comment is the text written back to the row's
// COMMENTS column.
type RowError struct {
	Err     error
	Comment string
}

func (e *RowError) Error() string { return e.Comment }

func (e *RowError) Unwrap() error { return e.Err }

// Validate checks that a row can produce a letter
func Validate(rec Record, minArrears float64) error {
	if blank(rec.PolicyNo) || blank(rec.PolicyHolder) {
		return &RowError{
			Err:     ErrMissingEssential,
			Comment: "Missing essential data (Policy No or Policy Holder)",
		}
	}

	if rec.Arrears < minArrears {
		return &RowError{
			Err:     ErrArrearsTooLow,
			Comment: fmt.Sprintf("Arrears amount too low (MUR %.2f < MUR %.0f)", rec.Arrears, minArrears),
		}
	}

	if !HasAddressFields(rec) && blank(rec.FullAddress) {
		return &RowError{Err: ErrNoAddress, Comment: "No valid address available"}
	}
	return nil
}

// Comment renders err the way it is recorded against a rejected row
func Comment(err error) string {
	if err == nil {
		return ""
	}
	var rowErr *RowError
	if errors.As(err, &rowErr) {
		return rowErr.Comment
	}
	return err.Error()
}
