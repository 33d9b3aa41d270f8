package utils

import (
	"errors"
	"fmt"
)

// Common application errors used across services.
var (
	ErrRouterNotFound    = errors.New("ROUTER_NOT_FOUND")
	ErrCategoryNotFound  = errors.New("CATEGORY_NOT_FOUND")
	ErrStoreNotFound     = errors.New("STORE_NOT_FOUND")
	ErrActionNotFound    = errors.New("ACTION_NOT_FOUND")
	ErrInvalidAction     = errors.New("INVALID_ACTION")
	ErrInvalidTransition = errors.New("INVALID_TRANSITION")
	ErrDuplicateSerial   = errors.New("DUPLICATE_SERIAL_NUMBER")
	ErrPermissionDenied  = errors.New("PERMISSION_DENIED")
)

// TransitionError reports a rejected status transition. It carries the
// router's current status and the attempted action so callers can build
// a precise user message, and matches ErrInvalidTransition under
// errors.Is.
type TransitionError struct {
	SerialNumber string
	Current      string
	Attempted    string
	Reason       string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("router %s cannot go from %s to %s", e.SerialNumber, e.Current, e.Attempted)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
