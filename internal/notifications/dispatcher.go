package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evergreenlabs/plantcare-backend/internal/delivery"
	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	dbtypes "github.com/evergreenlabs/plantcare-backend/pkg/db/types"
	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
	pkgerrors "github.com/evergreenlabs/plantcare-backend/pkg/errors"
	"github.com/evergreenlabs/plantcare-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SendParams describes one notification to fan out across channels.
type SendParams struct {
	UserID   uuid.UUID
	TaskID   *uuid.UUID
	PlantID  *uuid.UUID
	Type     enums.NotificationType
	Title    string
	Message  string
	Metadata map[string]any
}

// SendResult reports which channels recorded a notification. Success stays
// true even when every channel was suppressed; it only flips on lookup or
// storage failures.
type SendResult struct {
	Success      bool
	SentChannels []enums.NotificationChannel
}

type dispatcherUserRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Dispatcher persists in-app notifications and fans out to the SMS and
// email drivers, consulting the eligibility evaluator per channel.
type Dispatcher struct {
	users dispatcherUserRepo
	prefs PreferencesRepository
	repo  Repository
	sms   delivery.Driver
	email delivery.Driver
	logg  *logger.Logger
	now   func() time.Time
}

// DispatcherParams bundles the dispatcher dependencies.
type DispatcherParams struct {
	Users  dispatcherUserRepo
	Prefs  PreferencesRepository
	Repo   Repository
	SMS    delivery.Driver
	Email  delivery.Driver
	Logger *logger.Logger
	Now    func() time.Time
}

// NewDispatcher validates dependencies and builds a dispatcher.
func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Prefs == nil {
		return nil, fmt.Errorf("preferences repository is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("notifications repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		users: params.Users,
		prefs: params.Prefs,
		repo:  params.Repo,
		sms:   params.SMS,
		email: params.Email,
		logg:  params.Logger,
		now:   now,
	}, nil
}

// Send fans one notification out across the in-app, SMS, and email channels.
// Delivery driver failures are isolated: the channel is omitted from the
// result and the rest proceed. Storage failures abort with Success=false.
func (d *Dispatcher) Send(ctx context.Context, params SendParams) (SendResult, error) {
	result := SendResult{SentChannels: []enums.NotificationChannel{}}

	if params.UserID == uuid.Nil {
		return result, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !params.Type.IsValid() {
		return result, pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}

	user, err := d.users.FindByID(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	// A missing preferences row is not an error: nil means fail-open.
	prefs, err := d.prefs.FindByUser(ctx, params.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preferences")
		}
		prefs = nil
	}

	now := d.now().UTC()

	// Quiet hours are wall-clock hours where the user lives; storage
	// timestamps stay UTC.
	localNow := now
	if user.Timezone != "" {
		if loc, err := time.LoadLocation(user.Timezone); err == nil {
			localNow = now.In(loc)
		}
	}

	// In-app: always attempted, never subject to quiet hours.
	if decision := ShouldSend(prefs, params.Type, enums.NotificationChannelInApp, localNow); decision.Allow {
		if err := d.record(ctx, params, enums.NotificationChannelInApp, now, false); err != nil {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist in-app notification")
		}
		result.SentChannels = append(result.SentChannels, enums.NotificationChannelInApp)
	} else {
		d.logSuppressed(ctx, params, enums.NotificationChannelInApp, decision.Reason)
	}

	// SMS: requires opt-in and a verified phone number.
	if prefs != nil && prefs.SMSEnabled && prefs.PhoneVerified && prefs.Phone != nil && *prefs.Phone != "" {
		if decision := ShouldSend(prefs, params.Type, enums.NotificationChannelSMS, localNow); decision.Allow {
			if d.deliver(ctx, d.sms, *prefs.Phone, params) {
				if err := d.record(ctx, params, enums.NotificationChannelSMS, now, true); err != nil {
					return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist sms notification")
				}
				result.SentChannels = append(result.SentChannels, enums.NotificationChannelSMS)
			}
		} else {
			d.logSuppressed(ctx, params, enums.NotificationChannelSMS, decision.Reason)
		}
	}

	// Email: requires opt-in; recipient is the account email.
	if prefs != nil && prefs.EmailEnabled {
		if decision := ShouldSend(prefs, params.Type, enums.NotificationChannelEmail, localNow); decision.Allow {
			if d.deliver(ctx, d.email, user.Email, params) {
				if err := d.record(ctx, params, enums.NotificationChannelEmail, now, true); err != nil {
					return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist email notification")
				}
				result.SentChannels = append(result.SentChannels, enums.NotificationChannelEmail)
			}
		} else {
			d.logSuppressed(ctx, params, enums.NotificationChannelEmail, decision.Reason)
		}
	}

	result.Success = true
	return result, nil
}

// record inserts the notification row. SMS and email rows are created
// pre-marked read: the user sees those outside the app.
func (d *Dispatcher) record(ctx context.Context, params SendParams, channel enums.NotificationChannel, now time.Time, read bool) error {
	row := &models.Notification{
		UserID:   params.UserID,
		TaskID:   params.TaskID,
		PlantID:  params.PlantID,
		Type:     params.Type,
		Channel:  channel,
		Title:    params.Title,
		Message:  params.Message,
		Metadata: dbtypes.JSONMap(params.Metadata),
		Read:     read,
		SentAt:   now,
	}
	if read {
		at := now
		row.ReadAt = &at
	}
	return d.repo.Create(ctx, row)
}

// deliver runs a driver call, swallowing failures so one channel cannot
// abort the others.
func (d *Dispatcher) deliver(ctx context.Context, driver delivery.Driver, recipient string, params SendParams) bool {
	if driver == nil {
		return false
	}
	err := driver.Send(ctx, delivery.Message{
		Recipient: recipient,
		Subject:   params.Title,
		Body:      params.Message,
	})
	if err != nil {
		if d.logg != nil {
			logCtx := d.logg.WithFields(ctx, map[string]any{
				"channel": driver.Name(),
				"user_id": params.UserID.String(),
				"type":    string(params.Type),
				"error":   err.Error(),
			})
			d.logg.Warn(logCtx, "notification.delivery.failed")
		}
		return false
	}
	return true
}

func (d *Dispatcher) logSuppressed(ctx context.Context, params SendParams, channel enums.NotificationChannel, reason string) {
	if d.logg == nil {
		return
	}
	logCtx := d.logg.WithFields(ctx, map[string]any{
		"channel": string(channel),
		"user_id": params.UserID.String(),
		"type":    string(params.Type),
		"reason":  reason,
	})
	d.logg.Info(logCtx, "notification.suppressed")
}
