package services

import (
	"errors"
	"fmt"

	"mecfinder/internal/repositories/interfaces"
	"mecfinder/pkg/moderation"
	"mecfinder/pkg/pricing"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrUpstream        = errors.New("upstream provider failed")
)

// FieldError is a validation failure tied to one request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

func fieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// translate maps repository and domain errors onto the service sentinels.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}

	var pricingErr *pricing.ValidationError
	var banErr *moderation.ValidationError

	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		return fmt.Errorf("%s %w", resource, ErrNotFound)
	case errors.Is(err, interfaces.ErrDuplicate):
		return fmt.Errorf("%s already exists: %w", resource, ErrConflict)
	case errors.Is(err, interfaces.ErrStateChanged):
		return fmt.Errorf("%s was modified concurrently: %w", resource, ErrConflict)
	case errors.Is(err, moderation.ErrAlreadyBanned):
		return fmt.Errorf("%s is already banned: %w", resource, ErrConflict)
	case errors.As(err, &pricingErr):
		return fieldError(pricingErr.Field, pricingErr.Message)
	case errors.As(err, &banErr):
		return fieldError(banErr.Field, banErr.Message)
	}
	return err
}
