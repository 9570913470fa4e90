package email

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"
)

const (
	// Confirmation emails come from this sender with a subject like
	// "Your X confirmation code is 482917".
	confirmationSender = "info@x.com"
	confirmationPhrase = "confirmation code is"
	rfc5322DateLayout  = "Mon, 2 Jan 2006 15:04:05 -0700"
)

// The body mentions the account the login attempt was made against:
// "We noticed an attempt to log in to your account @somebody ..."
var handlePattern = regexp.MustCompile(`to log in to your account @(\w+)`)

// CodeResult carries an extracted confirmation code and, when the
// message body revealed it, the handle of the account being logged in.
type CodeResult struct {
	Code   string
	Handle string
}

// scanForCode walks the mailbox newest-first (sequence count down to 1)
// looking for a confirmation email. It returns (nil, nil) when no
// matching message exists yet, and stops early as soon as it sees a
// message older than cutoff: everything below it is older still, and a
// code from before the cutoff would belong to a previous login attempt.
func scanForCode(sess Session, count uint32, cutoff time.Time, log *zap.Logger) (*CodeResult, error) {
	for seq := count; seq >= 1; seq-- {
		raw, err := sess.Fetch(seq)
		if err != nil {
			return nil, err
		}

		msg, err := message.Read(bytes.NewReader(raw))
		if err != nil && !message.IsUnknownCharset(err) {
			return nil, fmt.Errorf("parsing message %d: %w", seq, err)
		}

		sentAt, err := parseMessageDate(msg.Header.Get("Date"))
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", seq, err)
		}

		from := strings.ToLower(msg.Header.Get("From"))
		subject := msg.Header.Get("Subject")

		log.Debug("scanned message",
			zap.Uint32("seq", seq),
			zap.Uint32("of", count),
			zap.String("from", from),
			zap.Time("date", sentAt),
			zap.String("subject", subject))

		if !cutoff.IsZero() && sentAt.Before(cutoff) {
			return nil, nil
		}

		if !strings.Contains(from, confirmationSender) ||
			!strings.Contains(strings.ToLower(subject), confirmationPhrase) {
			continue
		}

		fields := strings.Fields(subject)
		if len(fields) == 0 {
			continue
		}

		result := &CodeResult{
			Code:   fields[len(fields)-1],
			Handle: extractHandle(msg),
		}
		log.Info("confirmation code found",
			zap.String("from", from),
			zap.String("code", result.Code))
		return result, nil
	}
	return nil, nil
}

// parseMessageDate parses an RFC 5322 Date header, dropping the
// trailing parenthesized timezone comment some servers append
// ("Mon, 2 Jan 2006 15:04:05 +0000 (UTC)").
func parseMessageDate(raw string) (time.Time, error) {
	if i := strings.Index(raw, "("); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(rfc5322DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable Date header %q: %w", raw, err)
	}
	return t, nil
}

// extractHandle pulls the account handle out of the first text/plain,
// non-attachment body part. The handle is opportunistic: any failure
// to decode the body just means no handle.
func extractHandle(msg *message.Entity) string {
	mr := mail.NewReader(msg)
	defer mr.Close()

	for {
		part, err := mr.NextPart()
		if err != nil {
			return ""
		}
		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ctype, _, _ := h.ContentType()
		if ctype != "text/plain" {
			continue
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return ""
		}
		if m := handlePattern.FindSubmatch(body); m != nil {
			return string(m[1])
		}
		return ""
	}
}
