// Package smtp delivers operator notifications directly over SMTP.
package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/formworks/formgate/internal/core/domain"
	"github.com/formworks/formgate/internal/core/ports"
)

// Notifier sends each notification as a single plain-text email.
type Notifier struct {
	addr     string
	host     string
	username string
	password string
}

// New creates a notifier for the given SMTP server. Empty username disables
// authentication.
func New(host string, port int, username, password string) *Notifier {
	return &Notifier{
		addr:     fmt.Sprintf("%s:%d", host, port),
		host:     host,
		username: username,
		password: password,
	}
}

// Send formats and delivers the message. net/smtp has no context support;
// cancellation is checked before dialing and the server's own timeouts
// bound the rest.
func (n *Notifier) Send(ctx context.Context, msg *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	if err := smtp.SendMail(n.addr, auth, msg.Source, msg.To, formatMessage(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func formatMessage(msg *domain.Notification) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.Source + "\r\n")
	if len(msg.ReplyTo) > 0 {
		b.WriteString("Reply-To: " + strings.Join(msg.ReplyTo, ", ") + "\r\n")
	}
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

var _ ports.Notifier = (*Notifier)(nil)
