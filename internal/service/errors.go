package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/domain/layout"
)

// Common service errors - sentinel errors used across service implementations.
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError with the failed operation
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")
)

// ServiceError wraps an unexpected failure with the operation that failed.
type ServiceError struct {
	// Service is the name of the failing service, e.g. "palace"
	Service string
	// Operation is the operation that failed, e.g. "save_layout"
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err with operation context. Ownership and
// validation errors are returned unchanged.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	var validationErr *domain.ValidationError
	if errors.Is(err, ErrNotOwned) || errors.As(err, &validationErr) {
		return err
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// fieldErrors maps domain validation sentinels to the request field they describe.
var fieldErrors = []struct {
	field string
	errs  []error
}{
	{"email", []error{domain.ErrEmptyEmail, domain.ErrInvalidEmail}},
	{"name", []error{
		domain.ErrEmptyUserName, domain.ErrUserNameTooLong,
		domain.ErrPalaceNameEmpty, domain.ErrPalaceNameTooLong,
		domain.ErrFurnitureNameEmpty, domain.ErrFurnitureNameTooLong,
	}},
	{"password", []error{domain.ErrEmptyPassword, domain.ErrPasswordTooShort, domain.ErrPasswordTooLong}},
	{"front", []error{domain.ErrFlashcardFrontEmpty}},
	{"back", []error{domain.ErrFlashcardBackEmpty}},
	{"slot_index", []error{domain.ErrInvalidSlotIndex}},
	{"grade", []error{domain.ErrInvalidGrade}},
	{"layout", []error{layout.ErrNotRectangular, layout.ErrInvalidLayout}},
}

// asValidationError converts a known domain validation failure into a
// field-scoped domain.ValidationError. Other errors are returned unchanged.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return err
	}
	for _, fe := range fieldErrors {
		for _, target := range fe.errs {
			if errors.Is(err, target) {
				return domain.NewValidationError(fe.field, err.Error(), err)
			}
		}
	}
	return err
}
