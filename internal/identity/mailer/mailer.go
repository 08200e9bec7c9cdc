// Package mailer delivers the account lifecycle emails: activation links,
// password reset links and first-time password setup links. Workflows call
// it explicitly after the user row is durably written; nothing is sent from
// persistence hooks.
package mailer

import (
	"context"
	"fmt"
)

// Message is a single outbound email.
type Message struct {
	Subject string
	Body    string
}

// Sender delivers messages to a recipient address.
type Sender interface {
	Send(ctx context.Context, to string, msg Message) error
}

// ActivationMessage builds the email sent after signup.
func ActivationMessage(url string) Message {
	return Message{
		Subject: "Please activate your account",
		Body:    fmt.Sprintf("Activation URL: %s", url),
	}
}

// PasswordResetMessage builds the email sent on a reset request.
func PasswordResetMessage(url string) Message {
	return Message{
		Subject: "Password reset",
		Body:    fmt.Sprintf("Password reset url: %s", url),
	}
}

// PasswordSetupMessage builds the email sent to admin-created accounts.
func PasswordSetupMessage(url string) Message {
	return Message{
		Subject: "Password setup",
		Body:    fmt.Sprintf("Password setup url: %s", url),
	}
}
