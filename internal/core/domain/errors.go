package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by the coordination service wraps
// exactly one of these so the transport layer can classify it with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("service unavailable")
)

var (
	ErrRequestNotFound    = fmt.Errorf("tracking request %w", ErrNotFound)
	ErrRequestNotEligible = fmt.Errorf("tracking request is not accepting offers (%w)", ErrNotFound)
	ErrDriverNotFound     = fmt.Errorf("driver %w", ErrNotFound)
	ErrOfferNotFound      = fmt.Errorf("pending offer %w", ErrNotFound)
	ErrNoAcceptedOffer    = fmt.Errorf("accepted offer %w", ErrNotFound)
	ErrDispatchNotFound   = fmt.Errorf("dispatch %w", ErrNotFound)

	ErrDuplicateOffer         = fmt.Errorf("driver already holds an active offer (%w)", ErrConflict)
	ErrOfferAlreadyAccepted   = fmt.Errorf("another offer was already accepted (%w)", ErrConflict)
	ErrDispatchExists         = fmt.Errorf("dispatch already submitted (%w)", ErrConflict)
	ErrDispatchDriverMismatch = fmt.Errorf("dispatch must come from the accepted driver (%w)", ErrConflict)
)

// IsDomainError reports whether err belongs to one of the known error kinds.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUnavailable)
}
