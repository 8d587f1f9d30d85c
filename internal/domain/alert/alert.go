package alert

import (
	"errors"
	"time"

	"zavod/internal/shared/constants"
)

var validSeverities = map[string]bool{
	constants.AlertSeverityInfo:     true,
	constants.AlertSeverityWarning:  true,
	constants.AlertSeverityCritical: true,
}

// Alert is one operator-facing notification raised by the pipeline, such as
// a budget breach or an exhausted publication.
type Alert struct {
	id        uint
	projectID uint
	alertType string
	severity  string
	message   string
	metadata  map[string]interface{}
	createdAt time.Time
}

func NewAlert(projectID uint, alertType, severity, message string, metadata map[string]interface{}) (*Alert, error) {
	if projectID == 0 {
		return nil, errors.New("project ID is required")
	}
	if alertType == "" {
		return nil, errors.New("alert type is required")
	}
	if !validSeverities[severity] {
		return nil, errors.New("invalid alert severity")
	}
	if message == "" {
		return nil, errors.New("message is required")
	}

	return &Alert{
		projectID: projectID,
		alertType: alertType,
		severity:  severity,
		message:   message,
		metadata:  metadata,
		createdAt: time.Now().UTC(),
	}, nil
}

func ReconstructAlert(
	id uint,
	projectID uint,
	alertType string,
	severity string,
	message string,
	metadata map[string]interface{},
	createdAt time.Time,
) *Alert {
	return &Alert{
		id:        id,
		projectID: projectID,
		alertType: alertType,
		severity:  severity,
		message:   message,
		metadata:  metadata,
		createdAt: createdAt,
	}
}

func (a *Alert) ID() uint {
	return a.id
}

func (a *Alert) ProjectID() uint {
	return a.projectID
}

func (a *Alert) AlertType() string {
	return a.alertType
}

func (a *Alert) Severity() string {
	return a.severity
}

func (a *Alert) Message() string {
	return a.message
}

func (a *Alert) Metadata() map[string]interface{} {
	return a.metadata
}

func (a *Alert) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Alert) IsCritical() bool {
	return a.severity == constants.AlertSeverityCritical
}

func (a *Alert) SetID(id uint) error {
	if a.id != 0 {
		return errors.New("alert ID already set")
	}
	if id == 0 {
		return errors.New("invalid alert ID")
	}
	a.id = id
	return nil
}
