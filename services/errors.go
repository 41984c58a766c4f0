package services

import (
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
)

// User-visible messages for ownership failures.
const (
	MsgDeleteNotOwner = "You cannot DELETE this Product; it does not belong to you"
	MsgUpdateNotOwner = "You are not the seller and do not have the permission to edit this product."
	MsgLoginFailed    = "Failed to log in. Please check your credentials."
)

// RemoteError is a failed call to a remote service. Kind is one of the
// internal/errors sentinels and is reachable with errors.Is.
type RemoteError struct {
	Op      string // e.g. "Products.Delete"
	Status  int    // HTTP status, 0 when the service answered 2xx with an error body
	Message string // User-visible message
	Kind    error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("[%s] %s", e.Op, e.Message)
	}
	return fmt.Sprintf("[%s] %s (%d)", e.Op, e.Kind.Error(), e.Status)
}

func (e *RemoteError) Unwrap() error {
	return e.Kind
}

// UserMessage returns the message to show the user.
func (e *RemoteError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrForbidden
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.ErrInvalidRequest
	}
	return apperrors.ErrRemote
}
