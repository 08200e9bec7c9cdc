package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender delivers mail through a plain SMTP relay.
type SMTPSender struct {
	Addr string // host:port of the relay
	From string // sender address
	Auth smtp.Auth
}

func (s *SMTPSender) Send(_ context.Context, to string, msg Message) error {
	body := new(strings.Builder)
	fmt.Fprintf(body, "From: %s\r\n", s.From)
	fmt.Fprintf(body, "To: %s\r\n", to)
	fmt.Fprintf(body, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(body, "\r\n%s\r\n", msg.Body)

	if err := smtp.SendMail(s.Addr, s.Auth, s.From, []string{to}, []byte(body.String())); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}
