package insight

import (
	"errors"
	"fmt"

	"seomaster/internal/models"
)

// MissingCredentialError is returned when an operation needs a stored
// platform credential and none has been configured for the project. It is
// actionable for the caller (point the user at settings), so it is kept
// distinct from transport and provider failures.
type MissingCredentialError struct {
	Platform models.Platform
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("no %s credential configured for this project", e.Platform)
}

// IsMissingCredential reports whether err is (or wraps) a
// MissingCredentialError.
func IsMissingCredential(err error) bool {
	var me *MissingCredentialError
	return errors.As(err, &me)
}
