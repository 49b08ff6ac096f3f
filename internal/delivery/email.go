package delivery

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/evergreenlabs/plantcare-backend/pkg/config"
)

// EmailDriver delivers notification emails through Resend.
type EmailDriver struct {
	client *resend.Client
	from   string
}

// NewEmailDriver constructs a Resend-backed email driver.
func NewEmailDriver(cfg config.EmailConfig) (*EmailDriver, error) {
	if strings.TrimSpace(cfg.ResendAPIKey) == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	from := strings.TrimSpace(cfg.FromAddress)
	if from == "" {
		return nil, fmt.Errorf("from address is required")
	}
	return &EmailDriver{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   from,
	}, nil
}

func (d *EmailDriver) Name() string {
	return "email"
}

func (d *EmailDriver) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.Recipient) == "" {
		return fmt.Errorf("recipient is required")
	}

	params := &resend.SendEmailRequest{
		From:    d.from,
		To:      []string{msg.Recipient},
		Subject: msg.Subject,
		Text:    msg.Body,
	}

	if _, err := d.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
