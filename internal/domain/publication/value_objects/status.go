package value_objects

import "fmt"

// Status is the publication lifecycle state. Scheduled rows wait for
// dispatch, publishing rows own an in-flight delivery attempt, and
// published/failed are terminal.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusPublishing Status = "publishing"
	StatusPublished  Status = "published"
	StatusFailed     Status = "failed"
)

var validStatuses = map[Status]bool{
	StatusScheduled:  true,
	StatusPublishing: true,
	StatusPublished:  true,
	StatusFailed:     true,
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

func (s Status) IsScheduled() bool {
	return s == StatusScheduled
}

func (s Status) IsPublishing() bool {
	return s == StatusPublishing
}

func (s Status) IsPublished() bool {
	return s == StatusPublished
}

func (s Status) IsFailed() bool {
	return s == StatusFailed
}

// IsTerminal reports whether the state can never change again.
func (s Status) IsTerminal() bool {
	return s == StatusPublished || s == StatusFailed
}

func NewStatus(str string) (Status, error) {
	s := Status(str)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid publication status: %s", str)
	}
	return s, nil
}
