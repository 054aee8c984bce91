package mailer

import (
	"context"
	"strings"
	"testing"

	"github.com/retailnet/backend/pkg/config"
)

func TestNewFromConfigPicksSender(t *testing.T) {
	if _, ok := NewFromConfig(config.MailConfig{}, nil).(*LogSender); !ok {
		t.Fatalf("expected log sender without smtp host")
	}
	if _, ok := NewFromConfig(config.MailConfig{SMTPHost: "smtp.example.com"}, nil).(*SMTPSender); !ok {
		t.Fatalf("expected smtp sender with smtp host")
	}
}

func TestFormatMessage(t *testing.T) {
	msg := Message{
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Order 42 placed",
		Body:    "Thanks for your order.",
	}
	raw := string(formatMessage("noreply@retailnet.dev", msg))

	for _, sub := range []string{
		"From: noreply@retailnet.dev\r\n",
		"To: a@example.com, b@example.com\r\n",
		"Subject: Order 42 placed\r\n",
		"\r\n\r\nThanks for your order.",
	} {
		if !strings.Contains(raw, sub) {
			t.Errorf("formatted message missing %q", sub)
		}
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	s := &LogSender{}
	if err := s.Send(context.Background(), Message{Subject: "x"}); err == nil {
		t.Fatal("expected error for empty recipients")
	}
}
