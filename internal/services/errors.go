package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks an expected file, SKU, or slug that is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks unreadable images, malformed names, and paths
	// that escape a configured root.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPrerequisite marks a stage transition whose required predecessor
	// artifacts are missing.
	ErrPrerequisite = errors.New("missing prerequisite")
	// ErrCorrupt marks unreadable tracker or registry state. Callers treat
	// the state as empty and continue; the marker exists for logging.
	ErrCorrupt = errors.New("corrupt state")
	// ErrUnexpected marks failures outside the pipeline taxonomy, such as
	// filesystem permission errors.
	ErrUnexpected = errors.New("unexpected failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUnexpected
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a pipeline error to the CLI process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrPrerequisite):
		return 1
	default:
		return 2
	}
}

// Recoverable reports whether the error belongs to the recoverable part of
// the taxonomy, i.e. the caller supplied something fixable rather than the
// system misbehaving.
func Recoverable(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrPrerequisite) ||
		errors.Is(err, ErrCorrupt)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
