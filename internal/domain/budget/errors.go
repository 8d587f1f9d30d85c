package budget

import (
	"errors"
	"fmt"
	"strings"
)

// Machine-readable reasons carried by LimitExceededError. Ordering in the
// error message follows the order checks run: tokens, video seconds,
// publications.
const (
	ReasonTokenLimitExceeded        = "token_limit_exceeded"
	ReasonVideoSecondsLimitExceeded = "video_seconds_limit_exceeded"
	ReasonPublicationLimitExceeded  = "publication_limit_exceeded"
)

// LimitExceededError reports a denied admission. Reasons lists every
// dimension whose limit the hypothetical usage would breach.
type LimitExceededError struct {
	ProjectID uint
	Reasons   []string
	Totals    UsageTotals
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("budget limit exceeded: %s", strings.Join(e.Reasons, ", "))
}

// NewLimitExceededError creates a LimitExceededError for the given project.
func NewLimitExceededError(projectID uint, reasons []string, totals UsageTotals) *LimitExceededError {
	return &LimitExceededError{
		ProjectID: projectID,
		Reasons:   reasons,
		Totals:    totals,
	}
}

// IsLimitExceeded checks whether err is (or wraps) a LimitExceededError.
func IsLimitExceeded(err error) bool {
	var limitErr *LimitExceededError
	return errors.As(err, &limitErr)
}

// GetLimitExceeded extracts the LimitExceededError from err, or nil.
func GetLimitExceeded(err error) *LimitExceededError {
	var limitErr *LimitExceededError
	if errors.As(err, &limitErr) {
		return limitErr
	}
	return nil
}
