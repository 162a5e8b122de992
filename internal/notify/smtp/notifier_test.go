package smtp

import (
	"strings"
	"testing"

	"github.com/formworks/formgate/internal/core/domain"
)

func TestFormatMessage(t *testing.T) {
	msg := &domain.Notification{
		Source:  "inbox@operator.example",
		ReplyTo: []string{"inbox@operator.example"},
		To:      []string{"operator@operator.example"},
		Subject: "New Form Submission",
		Body:    "name: Al\n\nemail: al@example.com\n\n",
	}

	raw := string(formatMessage(msg))

	headers, body, found := strings.Cut(raw, "\r\n\r\n")
	if !found {
		t.Fatal("message has no header/body separator")
	}
	for _, want := range []string{
		"From: inbox@operator.example",
		"Reply-To: inbox@operator.example",
		"To: operator@operator.example",
		"Subject: New Form Submission",
		"Content-Type: text/plain; charset=UTF-8",
	} {
		if !strings.Contains(headers, want) {
			t.Errorf("headers missing %q:\n%s", want, headers)
		}
	}
	if body != msg.Body {
		t.Errorf("body = %q, want %q", body, msg.Body)
	}
}

func TestFormatMessageNoReplyTo(t *testing.T) {
	msg := &domain.Notification{
		Source:  "a@example.com",
		To:      []string{"b@example.com"},
		Subject: "s",
		Body:    "x",
	}
	if strings.Contains(string(formatMessage(msg)), "Reply-To:") {
		t.Error("Reply-To header emitted without addresses")
	}
}
