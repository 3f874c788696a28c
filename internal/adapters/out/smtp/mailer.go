// Package smtp implements the Mailer port over plain SMTP. Delivery runs in
// the outbox worker, so a slow or down mail server only delays notifications
// and never blocks a request.
package smtp

import (
	"context"
	"fmt"
	netsmtp "net/smtp"
	"strings"

	"checkout/internal/core/ports"
	"checkout/internal/pkg/errs"
)

var _ ports.Mailer = (*Mailer)(nil)

// Mailer sends emails through a single SMTP relay.
type Mailer struct {
	addr string
	from string
	auth netsmtp.Auth

	// send is swappable for tests; defaults to netsmtp.SendMail.
	send func(addr string, auth netsmtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates an SMTP mailer. host and port locate the relay; username
// may be empty for relays without authentication.
func NewMailer(host string, port int, username, password, from string) (*Mailer, error) {
	if host == "" {
		return nil, errs.NewValueIsRequiredError("host")
	}
	if from == "" {
		return nil, errs.NewValueIsRequiredError("from")
	}

	var auth netsmtp.Auth
	if username != "" {
		auth = netsmtp.PlainAuth("", username, password, host)
	}

	return &Mailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
		send: netsmtp.SendMail,
	}, nil
}

// Send delivers one email to all recipients in a single SMTP transaction.
func (m *Mailer) Send(_ context.Context, email ports.Email) error {
	if len(email.To) == 0 {
		return errs.NewValueIsRequiredError("to")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(email.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", email.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(email.Body)

	if err := m.send(m.addr, m.auth, m.from, email.To, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
