package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Chief-Alchemist/twscrape/internal/config"
	"github.com/Chief-Alchemist/twscrape/internal/email"
	"github.com/Chief-Alchemist/twscrape/internal/notifier"
)

// emailcode waits for the one-time login confirmation email and prints
// the extracted code on stdout, so login automation can capture it.
func main() {
	logConfig := zap.NewDevelopmentConfig()
	log, err := logConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	resolver := email.NewResolver()

	// Only codes mailed after this point belong to the current login
	// attempt; anything earlier is a stale code from a previous one.
	cutoff := time.Now()

	sess, err := email.Open(cfg.Email, cfg.Password, resolver, log)
	if err != nil {
		var authErr *email.AuthenticationError
		if errors.As(err, &authErr) {
			alertAuthFailure(cfg, authErr, log)
		}
		log.Fatal("Failed to open mailbox session", zap.Error(err))
	}

	result, err := email.PollForCode(sess, cfg.Email, cutoff, cfg.CodeTimeout, log)
	if err != nil {
		log.Fatal("Failed to retrieve confirmation code", zap.Error(err))
	}

	if result.Handle != "" {
		log.Info("Login attempt was for account", zap.String("handle", result.Handle))
	}
	fmt.Println(result.Code)
}

// alertAuthFailure emails the operator when the mailbox credentials are
// rejected, since that needs a human to rotate the password.
func alertAuthFailure(cfg *config.Config, authErr *email.AuthenticationError, log *zap.Logger) {
	if cfg.ResendAPIKey == "" || cfg.AlertRecipient == "" {
		return
	}

	subject := "Confirmation code retriever - mailbox login failed"
	body := fmt.Sprintf(`
		<h2>Mailbox authentication failed</h2>
		<p>The IMAP credentials for <strong>%s</strong> were rejected. Update the stored app password and restart the login flow.</p>
		<p>Error: %v</p>
	`, authErr.Address, authErr)

	client := notifier.NewResendClient(cfg.ResendAPIKey)
	if err := client.SendEmail(cfg.AlertRecipient, subject, body); err != nil {
		log.Error("Failed to send alert email", zap.Error(err))
	}
}
