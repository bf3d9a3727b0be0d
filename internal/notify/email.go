package notify

import (
	"gopkg.in/gomail.v2"

	"github.com/centroimagen/booking-api/pkg/config"
	"github.com/centroimagen/booking-api/pkg/logger"
)

// EmailSender delivers notification emails over SMTP. When no SMTP host
// is configured it degrades to log-only, so standalone and test setups
// work without a mail server.
type EmailSender struct {
	config *config.SMTPConfig
	logger *logger.Logger
}

// NewEmailSender creates a new email sender
func NewEmailSender(cfg *config.SMTPConfig, log *logger.Logger) *EmailSender {
	return &EmailSender{config: cfg, logger: log}
}

// Send delivers a plain-text email to a single recipient
func (s *EmailSender) Send(to, subject, body string) error {
	if s.config.Host == "" {
		s.logger.WithFields(map[string]interface{}{
			"to":      to,
			"subject": subject,
		}).Info("SMTP not configured, email logged only")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.config.Host, s.config.Port, s.config.User, s.config.Password)
	if err := d.DialAndSend(m); err != nil {
		return err
	}

	s.logger.WithField("to", to).Info("Email sent successfully")
	return nil
}
