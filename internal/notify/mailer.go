package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends a plain-text email.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer creates a mailer for the given relay ("host:port") and
// sender address.
func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{
		addr: addr,
		from: from,
	}
}

// Send delivers one message. Errors are returned to the caller, which treats
// email as best-effort.
func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.addr == "" {
		return fmt.Errorf("SMTP relay is not configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
