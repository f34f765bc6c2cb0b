package domain

import "errors"

var (
	ErrMissingDate         = errors.New("date is required")
	ErrInvalidDateRange    = errors.New("check-out must be after check-in")
	ErrIncompleteDateRange = errors.New("both check-in and check-out are required when either is set")
	ErrInvalidRoomCount    = errors.New("room count must be at least 1")
	ErrNegativeNights      = errors.New("nights must not be negative")
	ErrNegativePrice       = errors.New("price must not be negative")
	ErrInvalidRoomType     = errors.New("room type id is invalid")
	ErrMissingField        = errors.New("field is required")
	ErrInvalidEmail        = errors.New("email is invalid")
	ErrInvalidPriceBand    = errors.New("price band must be low, medium or high")
	ErrInvalidStatus       = errors.New("booking status is not recognised")
	ErrTotalOverflow       = errors.New("total price is too large")
)

// ValidationError names the offending field. It unwraps to one of the
// sentinels above so callers can branch with errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func Invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
