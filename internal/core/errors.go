package core

import (
	"errors"
	"fmt"
	"log/slog"

	"minigold/internal/store"
)

// Error kinds. Every error returned by a service wraps exactly one of them.
var (
	ErrValidation     = errors.New("validation failed")
	ErrPersistence    = errors.New("persistence failure")
	ErrNotFound       = errors.New("not found")
	ErrStateViolation = errors.New("state violation")
)

// Kind classifies an error returned by a core service.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindPersistence
	KindNotFound
	KindStateViolation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPersistence:
		return "persistence"
	case KindNotFound:
		return "not_found"
	case KindStateViolation:
		return "state_violation"
	}
	return "unknown"
}

// KindOf returns the kind wrapped by err, or KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrStateViolation):
		return KindStateViolation
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	}
	return KindUnknown
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func stateViolationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStateViolation, fmt.Sprintf(format, args...))
}

// persistence converts an error leaving a transaction into the service error.
// Domain errors pass through unchanged; store.ErrNotFound becomes ErrNotFound;
// anything else is logged with the operation context and wrapped as ErrPersistence.
func persistence(logger *slog.Logger, op string, err error, attrs ...any) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindUnknown {
		return err
	}
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}
	logger.Error("transaction rolled back", append([]any{"op", op, "error", err}, attrs...)...)
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
