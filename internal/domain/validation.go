package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation constants
const (
	MaxReferenceLength = 64
	MaxMethodLength    = 32
	MaxPageSize        = 1000
	DefaultPageSize    = 50
)

var referenceRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateReference validates an opaque reference to an external entity such
// as a client or guarantor.
func ValidateReference(field, ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	if len(ref) > MaxReferenceLength || !referenceRegex.MatchString(ref) {
		return fmt.Errorf("%w: %s has an invalid format", ErrInvalidArgument, field)
	}
	return nil
}

// ValidatePaymentMethod validates the free-form payment method label.
func ValidatePaymentMethod(method string) error {
	method = strings.TrimSpace(method)
	if method == "" {
		return fmt.Errorf("%w: payment method", ErrMissingField)
	}
	if len(method) > MaxMethodLength {
		return fmt.Errorf("%w: payment method exceeds %d characters", ErrInvalidArgument, MaxMethodLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
