package email

import "strings"

// Resolver maps the domain of an email address to the IMAP endpoint to
// dial for it. Endpoints carrying an explicit port (host:port) are
// dialed without TLS, which is how local bridges such as Proton's are
// reached; everything else is dialed with TLS on the standard port.
type Resolver struct {
	overrides map[string]string
}

// NewResolver returns a resolver seeded with the well-known providers
// whose IMAP hosts don't follow the imap.<domain> convention.
func NewResolver() *Resolver {
	return &Resolver{
		overrides: map[string]string{
			"yahoo.com":   "imap.mail.yahoo.com",
			"icloud.com":  "imap.mail.me.com",
			"outlook.com": "imap-mail.outlook.com",
			"hotmail.com": "imap-mail.outlook.com",
			"proton.me":   "127.0.0.1:1143",
		},
	}
}

// Register adds or replaces the endpoint for a domain. Last write wins.
// Not safe for concurrent use with Resolve; callers should register
// everything at startup, before polling begins.
func (r *Resolver) Register(domain, endpoint string) {
	r.overrides[domain] = endpoint
}

// Resolve returns the IMAP endpoint for the given email address,
// falling back to "imap." + domain when no override is registered.
func (r *Resolver) Resolve(address string) string {
	domain := address
	if i := strings.LastIndex(address, "@"); i >= 0 {
		domain = address[i+1:]
	}
	if endpoint, ok := r.overrides[domain]; ok {
		return endpoint
	}
	return "imap." + domain
}
