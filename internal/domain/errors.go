package domain

import "errors"

var (
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTime      = errors.New("invalid time, expected HH:MM:SS")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidPrice     = errors.New("invalid unit price")
	ErrInvalidUnit      = errors.New("unknown unit of measure")
	ErrNotFound         = errors.New("record not found")
	ErrEditWindowClosed = errors.New("edit window has closed for this record")
)

// IsValidation reports whether err is caused by caller-supplied input.
func IsValidation(err error) bool {
	for _, target := range []error{ErrInvalidDate, ErrInvalidTime, ErrInvalidQuantity, ErrInvalidPrice, ErrInvalidUnit} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
