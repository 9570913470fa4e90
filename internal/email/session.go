package email

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"go.uber.org/zap"
)

// Session is the slice of an authenticated IMAP connection that the
// scanner and poll loop need. It is owned by exactly one poll
// operation; ResetAndClose must be called once when that operation
// finishes, on every exit path.
type Session interface {
	// MessageCount re-selects INBOX and reports how many messages it
	// currently holds.
	MessageCount() (uint32, error)
	// Fetch returns the full raw message with the given sequence number.
	Fetch(seq uint32) ([]byte, error)
	// ResetAndClose re-selects INBOX, closes it and logs out. Safe to
	// call on a healthy session; repeated calls are no-ops.
	ResetAndClose() error
}

type imapSession struct {
	c       *client.Client
	address string
	log     *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// Open resolves the IMAP endpoint for address, dials it, authenticates
// and selects INBOX read-only. A rejected credential (or a mailbox that
// cannot be selected) is reported as *AuthenticationError.
func Open(address, password string, resolver *Resolver, log *zap.Logger) (Session, error) {
	endpoint := resolver.Resolve(address)

	var c *client.Client
	var err error
	if strings.Contains(endpoint, ":") {
		// An explicit port means a local bridge; no TLS.
		c, err = client.Dial(endpoint)
	} else {
		c, err = client.DialTLS(endpoint+":993", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP server %s: %w", endpoint, err)
	}

	if err := c.Login(address, password); err != nil {
		log.Error("IMAP login rejected",
			zap.String("address", address),
			zap.String("endpoint", endpoint),
			zap.Error(err))
		_ = c.Logout()
		return nil, &AuthenticationError{Address: address, Err: err}
	}

	if _, err := c.Select("INBOX", true); err != nil {
		_ = c.Logout()
		return nil, &AuthenticationError{Address: address, Err: err}
	}

	log.Info("mailbox session opened",
		zap.String("address", address),
		zap.String("endpoint", endpoint))

	return &imapSession{c: c, address: address, log: log}, nil
}

func (s *imapSession) MessageCount() (uint32, error) {
	mbox, err := s.c.Select("INBOX", true)
	if err != nil {
		return 0, fmt.Errorf("selecting INBOX: %w", err)
	}
	return mbox.Messages, nil
}

func (s *imapSession) Fetch(seq uint32) ([]byte, error) {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(seq)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.c.Fetch(seqSet, items, messages)
	}()

	var raw []byte
	var readErr error
	for msg := range messages {
		if msg == nil || raw != nil {
			continue
		}
		literal := msg.GetBody(section)
		if literal == nil {
			continue
		}
		raw, readErr = io.ReadAll(literal)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetching message %d: %w", seq, err)
	}
	if readErr != nil {
		return nil, fmt.Errorf("reading message %d: %w", seq, readErr)
	}
	if raw == nil {
		return nil, fmt.Errorf("message %d returned no body", seq)
	}
	return raw, nil
}

func (s *imapSession) ResetAndClose() error {
	s.closeOnce.Do(func() {
		// Re-select to drop any state the scan left behind, then CLOSE
		// the mailbox before terminating the connection.
		if _, err := s.c.Select("INBOX", false); err != nil {
			s.closeErr = fmt.Errorf("reselecting INBOX: %w", err)
		}
		if err := s.c.Close(); err != nil && s.closeErr == nil {
			s.closeErr = fmt.Errorf("closing mailbox: %w", err)
		}
		if err := s.c.Logout(); err != nil && s.closeErr == nil {
			s.closeErr = fmt.Errorf("logging out: %w", err)
		}
		if s.closeErr != nil {
			s.log.Warn("mailbox session teardown incomplete",
				zap.String("address", s.address),
				zap.Error(s.closeErr))
		}
	})
	return s.closeErr
}
