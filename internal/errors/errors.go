// Package errors defines the domain error taxonomy shared by the core
// services and a mapper that folds infrastructure failures into it.
package errors

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinels for the error classes the core distinguishes. Handlers match
// them with errors.Is and degrade each class to its own user message.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

// Validationf builds a validation error with a user-facing detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Map converts repo/infra errors into the domain taxonomy.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: record missing", ErrNotFound)

	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: request timed out", ErrStorage)

	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: request was canceled", ErrStorage)

	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrStorage):
		return err

	default:
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
}
