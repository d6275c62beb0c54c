package gemini

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContent is returned when a generation response carries no usable
	// part (no text for structured tasks, no inline image for image tasks).
	ErrNoContent = errors.New("generation response contains no content")
)

// ProviderError is a non-2xx rejection from the generation endpoint: quota
// exhausted, invalid key, model unavailable. The provider message is kept
// verbatim so callers can tell "my key is bad" from "service is down".
type ProviderError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("generation endpoint returned %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("generation endpoint returned %d", e.StatusCode)
}

// MalformedError is returned when the model's text response is not valid
// JSON or does not satisfy the declared response schema. Callers must treat
// it as a failure; there is no silent fallback to an empty value.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "malformed generation response: " + e.Reason
}

// IsMalformed reports whether err is (or wraps) a MalformedError.
func IsMalformed(err error) bool {
	var me *MalformedError
	return errors.As(err, &me)
}
