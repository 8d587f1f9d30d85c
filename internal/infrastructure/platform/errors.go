package platform

import (
	"errors"
	"fmt"
)

// PlatformError is a transient delivery failure: transport problems, non-2xx
// responses, or provider-side error payloads. The publisher retries these up
// to its attempt ceiling; anything terminal is reported as a validation
// error instead.
type PlatformError struct {
	Platform   string
	StatusCode int
	Detail     string
}

func (e *PlatformError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s platform error (status %d): %s", e.Platform, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s platform error: %s", e.Platform, e.Detail)
}

func NewPlatformError(platform string, statusCode int, detail string) *PlatformError {
	return &PlatformError{Platform: platform, StatusCode: statusCode, Detail: detail}
}

func IsPlatformError(err error) bool {
	var pe *PlatformError
	return errors.As(err, &pe)
}

func AsPlatformError(err error) (*PlatformError, bool) {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
