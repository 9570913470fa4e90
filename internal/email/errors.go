package email

import (
	"fmt"
	"time"
)

// AuthenticationError is returned when the IMAP server rejects the
// mailbox credentials during session setup.
type AuthenticationError struct {
	Address string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("email login failed for %s: %v", e.Address, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// CodeTimeoutError is returned when no confirmation email arrives
// within the configured wait time.
type CodeTimeoutError struct {
	Timeout time.Duration
}

func (e *CodeTimeoutError) Error() string {
	return fmt.Sprintf("no confirmation code received within %v", e.Timeout)
}
