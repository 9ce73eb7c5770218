package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPrecondition marks a missing directory, missing required file, or
	// similar condition that skips the affected object or aborts the stage
	// without crashing the batch.
	ErrPrecondition = errors.New("precondition not met")
	// ErrValidation marks content that failed a structural check, such as a
	// master ledger whose header does not match the required field list.
	ErrValidation = errors.New("validation error")
	// ErrIO marks filesystem failures (unreadable file, failed rename) that
	// abort the current object's processing.
	ErrIO = errors.New("i/o error")
	// ErrConfiguration marks unusable settings discovered at stage setup.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether a stage error should stop the whole batch rather
// than just the current object. Validation and configuration failures abort
// the run; precondition and I/O failures abort only the object that raised
// them unless the stage chose to escalate.
func IsFatal(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
