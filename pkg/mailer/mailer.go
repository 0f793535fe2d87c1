// Package mailer sends transactional email over SMTP. In dev mode messages
// are logged instead of sent, so local environments need no mail server.
package mailer

import (
	"fmt"

	"github.com/sirupsen/logrus"
	mail "github.com/wneessen/go-mail"

	"github.com/grandpavilion/booking-backend/internal/config"
)

// Message is one outbound email
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends transactional email
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer sends mail through an SMTP relay using go-mail
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *logrus.Logger
}

// New creates a mailer for the configured mode
func New(cfg config.SMTPConfig, logger *logrus.Logger) Mailer {
	if cfg.Mode == "dev" {
		return &devMailer{logger: logger}
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers one message through the SMTP relay
func (m *SMTPMailer) Send(msg Message) error {
	client, err := mail.NewClient(
		m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	out := mail.NewMsg()
	if err := out.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextHTML, msg.HTML)

	if err := client.DialAndSend(out); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// devMailer logs messages instead of sending them
type devMailer struct {
	logger *logrus.Logger
}

func (m *devMailer) Send(msg Message) error {
	m.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("dev mode: email not sent")
	return nil
}
