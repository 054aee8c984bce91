package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/retailnet/backend/pkg/config"
	"github.com/retailnet/backend/pkg/logger"
)

// Message is a plain-text email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender delivers transactional email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewFromConfig returns an SMTP sender when a host is configured and a
// log-only sender otherwise, so dev environments work without a relay.
func NewFromConfig(cfg config.MailConfig, logg *logger.Logger) Sender {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return &LogSender{logg: logg}
	}
	return &SMTPSender{cfg: cfg}
}

// SMTPSender delivers mail through a plain SMTP relay.
type SMTPSender struct {
	cfg config.MailConfig
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("at least one recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	body := formatMessage(s.cfg.DefaultFrom, msg)
	if err := smtp.SendMail(addr, auth, s.cfg.DefaultFrom, msg.To, body); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender records outbound mail instead of delivering it.
type LogSender struct {
	logg *logger.Logger
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("at least one recipient is required")
	}
	if s.logg != nil {
		fields := map[string]any{
			"to":      strings.Join(msg.To, ","),
			"subject": msg.Subject,
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "mail suppressed (no smtp host configured)")
	}
	return nil
}

func formatMessage(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
