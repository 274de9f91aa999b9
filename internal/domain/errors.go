package domain

import "errors"

// Domain errors
var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrSessionNotFound     = errors.New("session not found")
	ErrUnknownRole         = errors.New("unknown role")
	ErrInvalidTimestamp    = errors.New("invalid timestamp")
	ErrInvalidExportFormat = errors.New("invalid export format")
	ErrMatchNotFound       = errors.New("match not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrInvalidRequest      = errors.New("invalid request")
)

// ValidationError is a user-facing rejection raised before any backend call
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError
func Invalid(message string) error {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFoundError checks if an error is a not-found type error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrMatchNotFound) ||
		errors.Is(err, ErrTournamentNotFound)
}
