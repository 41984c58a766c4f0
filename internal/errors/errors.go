package errors

import (
	"errors"
	"fmt"
)

// Common error types for the shop client
var (
	// Validation errors, raised before any network call
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrEmptyCart      = errors.New("your cart is empty")
	ErrInvalidRequest = errors.New("invalid request")

	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired, please log in again")

	// Remote service errors
	ErrTransport    = errors.New("a network error occurred")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrRemote       = errors.New("remote service error")

	// Storage errors
	ErrStorage = errors.New("storage error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsValidation reports whether err was raised locally without a network call.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidRequest)
}
