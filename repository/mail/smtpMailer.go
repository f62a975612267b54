package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type smtpMailer struct {
	addr string
	from string
}

// NewSMTP sends through the SMTP relay at addr (host:port).
func NewSMTP(addr, from string) Mailer {
	return &smtpMailer{addr: addr, from: from}
}

func (s *smtpMailer) Send(_ context.Context, m Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	b.WriteString("\r\n")

	return smtp.SendMail(s.addr, nil, s.from, []string{m.To}, []byte(b.String()))
}

type noopMailer struct{}

// NewNoop drops all mail, for environments without an SMTP relay.
func NewNoop() Mailer { return noopMailer{} }

func (noopMailer) Send(context.Context, Message) error { return nil }
