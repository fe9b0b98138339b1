package capture

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classifying engine failures. "No evidence", "no confident
// match", and "ambiguous match" are Outcome values, never errors; these
// sentinels cover genuinely invalid requests and infrastructure failures.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later status classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
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
		return "capture failure"
	}
	return strings.Join(parts, ": ")
}

// IsValidation reports whether err is tagged as a bad request.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is tagged as a missing resource.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is tagged as a state conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
