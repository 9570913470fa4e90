package notifier

import (
	"fmt"

	"github.com/resend/resend-go/v2"
)

const fromAddress = "code-retriever@notifications.twscrape.dev"

// ResendClient sends operator alerts via the Resend API.
type ResendClient struct {
	client *resend.Client
}

// NewResendClient creates a new Resend client.
func NewResendClient(apiKey string) *ResendClient {
	return &ResendClient{
		client: resend.NewClient(apiKey),
	}
}

// SendEmail sends an HTML email notification.
func (r *ResendClient) SendEmail(to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	if _, err := r.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}
