package email

import "testing"

func TestResolveKnownProviders(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		address string
		want    string
	}{
		{"user@yahoo.com", "imap.mail.yahoo.com"},
		{"user@icloud.com", "imap.mail.me.com"},
		{"user@outlook.com", "imap-mail.outlook.com"},
		{"user@hotmail.com", "imap-mail.outlook.com"},
		{"user@proton.me", "127.0.0.1:1143"},
	}

	for _, tt := range tests {
		if got := r.Resolve(tt.address); got != tt.want {
			t.Errorf("Resolve(%q): got %q, want %q", tt.address, got, tt.want)
		}
	}
}

func TestResolveFallback(t *testing.T) {
	r := NewResolver()

	if got, want := r.Resolve("user@unknown-domain.test"), "imap.unknown-domain.test"; got != want {
		t.Errorf("Resolve: got %q, want %q", got, want)
	}
}

func TestRegisterPersists(t *testing.T) {
	r := NewResolver()

	r.Register("example.com", "imap.example.com:993")

	if got, want := r.Resolve("a@example.com"), "imap.example.com:993"; got != want {
		t.Errorf("Resolve after Register: got %q, want %q", got, want)
	}
	// Still in effect on a later call.
	if got, want := r.Resolve("b@example.com"), "imap.example.com:993"; got != want {
		t.Errorf("Resolve on second call: got %q, want %q", got, want)
	}
}

func TestRegisterLastWriteWins(t *testing.T) {
	r := NewResolver()

	r.Register("example.com", "imap.old.example.com")
	r.Register("example.com", "imap.new.example.com")

	if got, want := r.Resolve("a@example.com"), "imap.new.example.com"; got != want {
		t.Errorf("Resolve: got %q, want %q", got, want)
	}
}

func TestRegisterOverridesDefault(t *testing.T) {
	r := NewResolver()

	r.Register("yahoo.com", "imap.elsewhere.test")

	if got, want := r.Resolve("user@yahoo.com"), "imap.elsewhere.test"; got != want {
		t.Errorf("Resolve: got %q, want %q", got, want)
	}
}
