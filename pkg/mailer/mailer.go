package mailer

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/swiftshop/swiftshop-backend/pkg/config"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
)

// Message is a plain-text email ready for delivery.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type smtpMailer struct {
	cfg  config.SMTPConfig
	logg *logger.Logger
}

// New returns a Mailer backed by the configured SMTP relay.
func New(cfg config.SMTPConfig, logg *logger.Logger) (Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	return &smtpMailer{cfg: cfg, logg: logg}, nil
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	for _, to := range msg.To {
		if strings.TrimSpace(to) == "" {
			return fmt.Errorf("empty recipient address")
		}
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	raw := formatMessage(m.cfg.From, msg)
	if err := smtp.SendMail(m.cfg.Addr(), auth, m.cfg.From, msg.To, raw); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	if m.logg != nil {
		logCtx := m.logg.WithFields(ctx, map[string]any{
			"recipients": len(msg.To),
			"subject":    msg.Subject,
		})
		m.logg.Info(logCtx, "email sent")
	}
	return nil
}

// formatMessage renders the RFC 5322 wire format. Subjects are Q-encoded so
// non-ASCII product names survive transit.
func formatMessage(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
