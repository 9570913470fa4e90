package email

import (
	"time"

	"go.uber.org/zap"
)

// pollInterval is how long to wait between mailbox scans. Package
// variable so tests can shorten it.
var pollInterval = 5 * time.Second

// PollForCode repeatedly rescans the mailbox until a confirmation
// email for address shows up or timeout elapses, measured from the
// call's start. Messages older than cutoff are ignored (pass the zero
// time for no cutoff). The session is reset and closed exactly once
// before PollForCode returns, whatever the outcome; scan and timeout
// errors propagate unchanged after cleanup.
func PollForCode(sess Session, address string, cutoff time.Time, timeout time.Duration, log *zap.Logger) (*CodeResult, error) {
	defer func() {
		if err := sess.ResetAndClose(); err != nil {
			log.Warn("releasing mailbox session", zap.Error(err))
		}
	}()

	log.Info("waiting for confirmation code",
		zap.String("address", address),
		zap.Duration("timeout", timeout))

	start := time.Now()
	for {
		count, err := sess.MessageCount()
		if err != nil {
			return nil, err
		}

		result, err := scanForCode(sess, count, cutoff, log)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}

		if time.Since(start) > timeout {
			return nil, &CodeTimeoutError{Timeout: timeout}
		}
		time.Sleep(pollInterval)
	}
}
