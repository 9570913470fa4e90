package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the code-retrieval tool needs from the
// environment.
type Config struct {
	// Email and Password authenticate the mailbox being polled.
	Email    string
	Password string

	// CodeTimeout bounds how long one poll operation may wait for the
	// confirmation email.
	CodeTimeout time.Duration

	// ResendAPIKey and AlertRecipient are optional; when both are set,
	// authentication failures are reported by email.
	ResendAPIKey   string
	AlertRecipient string
}

const defaultCodeTimeoutSec = 30

// Load reads configuration from environment variables. The timeout is
// sourced from TWS_WAIT_EMAIL_CODE, then LOGIN_CODE_TIMEOUT, then a
// 30 second default; the first non-empty value wins.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("code_timeout", defaultCodeTimeoutSec)

	_ = v.BindEnv("code_timeout", "TWS_WAIT_EMAIL_CODE", "LOGIN_CODE_TIMEOUT")
	_ = v.BindEnv("email", "TWS_EMAIL")
	_ = v.BindEnv("email_password", "TWS_EMAIL_PASSWORD")
	_ = v.BindEnv("resend_api_key", "RESEND_API_KEY")
	_ = v.BindEnv("alert_recipient", "ALERT_RECIPIENT")

	cfg := &Config{
		Email:          v.GetString("email"),
		Password:       v.GetString("email_password"),
		CodeTimeout:    time.Duration(v.GetInt("code_timeout")) * time.Second,
		ResendAPIKey:   v.GetString("resend_api_key"),
		AlertRecipient: v.GetString("alert_recipient"),
	}

	if cfg.Email == "" {
		return nil, fmt.Errorf("TWS_EMAIL must be set")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("TWS_EMAIL_PASSWORD must be set")
	}
	if cfg.CodeTimeout <= 0 {
		return nil, fmt.Errorf("code timeout must be positive, got %v", cfg.CodeTimeout)
	}

	return cfg, nil
}
