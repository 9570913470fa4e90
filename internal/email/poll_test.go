package email

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func shortenPollInterval(t *testing.T, d time.Duration) {
	t.Helper()
	old := pollInterval
	pollInterval = d
	t.Cleanup(func() { pollInterval = old })
}

func TestPollTimesOut(t *testing.T) {
	shortenPollInterval(t, 5*time.Millisecond)

	sess := &fakeSession{} // mailbox stays empty
	timeout := 30 * time.Millisecond

	start := time.Now()
	result, err := PollForCode(sess, "user@example.com", time.Time{}, timeout, zap.NewNop())
	elapsed := time.Since(start)

	if result != nil {
		t.Fatalf("expected no result, got %+v", result)
	}
	var timeoutErr *CodeTimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected *CodeTimeoutError, got %v", err)
	}
	if timeoutErr.Timeout != timeout {
		t.Errorf("Timeout: got %v, want %v", timeoutErr.Timeout, timeout)
	}
	if sess.closeCalls != 1 {
		t.Errorf("ResetAndClose calls: got %d, want 1", sess.closeCalls)
	}
	if elapsed > 2*time.Second {
		t.Errorf("poll took %v, should give up shortly after the %v timeout", elapsed, timeout)
	}
}

func TestPollFindsCodeOnSecondAttempt(t *testing.T) {
	shortenPollInterval(t, time.Millisecond)

	sess := &fakeSession{messages: map[uint32]string{}}
	sess.onCount = func(calls int) {
		// Code email arrives between the first and second scan.
		if calls == 1 {
			sess.counts = []uint32{1}
			sess.messages[1] = rawMessage("info@x.com",
				"Your X confirmation code is 775533",
				dateHeader(time.Now()), "code mail")
		}
	}

	result, err := PollForCode(sess, "user@example.com", time.Time{}, time.Minute, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.Code != "775533" {
		t.Fatalf("expected code 775533, got %+v", result)
	}
	if sess.countCalls != 2 {
		t.Errorf("scan attempts: got %d, want 2", sess.countCalls)
	}
	if sess.closeCalls != 1 {
		t.Errorf("ResetAndClose calls: got %d, want 1", sess.closeCalls)
	}
}

func TestPollCleansUpOnScanError(t *testing.T) {
	sess := &fakeSession{
		counts:   []uint32{1},
		fetchErr: errors.New("connection reset"),
	}

	_, err := PollForCode(sess, "user@example.com", time.Time{}, time.Minute, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected the fetch error to propagate, got %v", err)
	}
	if sess.closeCalls != 1 {
		t.Errorf("ResetAndClose calls: got %d, want 1", sess.closeCalls)
	}
}

func TestPollCleansUpOnCountError(t *testing.T) {
	sess := &fakeSession{countErr: errors.New("broken pipe")}

	_, err := PollForCode(sess, "user@example.com", time.Time{}, time.Minute, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Fatalf("expected the select error to propagate, got %v", err)
	}
	if sess.closeCalls != 1 {
		t.Errorf("ResetAndClose calls: got %d, want 1", sess.closeCalls)
	}
}
