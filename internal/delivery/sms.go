package delivery

import (
	"context"
	"fmt"
	"strings"

	"github.com/evergreenlabs/plantcare-backend/pkg/logger"
)

// SMSDriver is a logging stub. A real SMS provider integration slots in
// behind the same Driver contract.
type SMSDriver struct {
	logg *logger.Logger
}

// NewSMSDriver constructs the stub SMS driver.
func NewSMSDriver(logg *logger.Logger) *SMSDriver {
	return &SMSDriver{logg: logg}
}

func (d *SMSDriver) Name() string {
	return "sms"
}

func (d *SMSDriver) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.Recipient) == "" {
		return fmt.Errorf("recipient is required")
	}
	if d.logg != nil {
		ctx = d.logg.WithFields(ctx, map[string]any{
			"recipient": msg.Recipient,
			"body_len":  len(msg.Body),
		})
		d.logg.Info(ctx, "sms.stub.send")
	}
	return nil
}
