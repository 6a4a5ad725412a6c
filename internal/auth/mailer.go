package auth

import "log"

// Mailer delivers password-reset tickets out-of-band. Actual delivery is an
// external collaborator; the default implementation writes to the process
// log so operators can relay the ticket during development.
type Mailer interface {
	SendPasswordReset(email, token string) error
}

// LogMailer logs reset tickets instead of sending them.
type LogMailer struct{}

// SendPasswordReset logs the ticket for the given address.
func (LogMailer) SendPasswordReset(email, token string) error {
	log.Printf("[MAILER] password reset requested for %s, token: %s", email, token)
	return nil
}
