package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/gomail.v2"

	"zavod/internal/infrastructure/config"
	"zavod/internal/shared/constants"
	"zavod/internal/shared/goroutine"
	"zavod/internal/shared/logger"
)

// EmailSink forwards critical alerts to the operator mailbox. Sending happens
// on a background goroutine so a slow SMTP server never stalls publishing.
type EmailSink struct {
	config config.EmailConfig
	dialer *gomail.Dialer
	logger logger.Interface
}

func NewEmailSink(cfg config.EmailConfig, log logger.Interface) *EmailSink {
	if log == nil {
		log = logger.NewLogger()
	}
	return &EmailSink{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		logger: log,
	}
}

func (s *EmailSink) Notify(_ context.Context, projectID uint, alertType, severity, message string, metadata map[string]interface{}) {
	if !s.config.Enabled || s.config.AlertRecipient == "" {
		return
	}
	if severity != constants.AlertSeverityCritical {
		return
	}

	subject := fmt.Sprintf("[zavod] critical alert: %s (project %d)", alertType, projectID)
	body := s.buildBody(projectID, alertType, message, metadata)

	goroutine.SafeGo(s.logger, "alert-email", func() {
		m := gomail.NewMessage()
		m.SetHeader("From", s.config.FromAddress)
		m.SetHeader("To", s.config.AlertRecipient)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", body)

		if err := s.dialer.DialAndSend(m); err != nil {
			s.logger.Errorw("failed to send alert email",
				"error", err,
				"project_id", projectID,
				"alert_type", alertType,
			)
			return
		}
		s.logger.Infow("alert email sent", "project_id", projectID, "alert_type", alertType)
	})
}

func (s *EmailSink) buildBody(projectID uint, alertType, message string, metadata map[string]interface{}) string {
	body := fmt.Sprintf(`A critical alert was raised by the publication pipeline.

Project: %d
Type:    %s

%s
`, projectID, alertType, message)

	if len(metadata) > 0 {
		if encoded, err := json.MarshalIndent(metadata, "", "  "); err == nil {
			body += fmt.Sprintf("\nDetails:\n%s\n", encoded)
		}
	}
	return body
}
