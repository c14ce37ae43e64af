package domain

import (
	"errors"
	"fmt"
)

// Validation failures are detected locally, before any network call.
var (
	ErrTableNumberRequired  = errors.New("table number is required")
	ErrEmptyCart            = errors.New("sale must have at least one item")
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrProductRequired      = errors.New("product id is required")
	ErrNameRequired         = errors.New("name is required")
	ErrInvalidPrice         = errors.New("price must be greater than or equal to 0")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrNoPaymentMethod      = errors.New("no payment method selected")
	ErrRemoveNotAllowed     = errors.New("items can only be removed while editing an existing sale")
	ErrInvalidTransition    = errors.New("operation not allowed in current checkout state")
	ErrAlreadyFinalized     = errors.New("sale is already finalized")
	ErrDraftNotFound        = errors.New("draft not found")
)

// TransportError means the external service could not be reached or did not
// answer with a usable response. Never retried automatically; the caller must
// re-trigger the operation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError means the external service has no record for the given id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTransport reports whether err wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
