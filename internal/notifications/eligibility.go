package notifications

import (
	"time"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
)

// Decision is the outcome of an eligibility check. Reason is set only when
// delivery is denied.
type Decision struct {
	Allow  bool
	Reason string
}

func allow() Decision {
	return Decision{Allow: true}
}

func deny(reason string) Decision {
	return Decision{Allow: false, Reason: reason}
}

// ShouldSend decides whether a notification of the given type may be
// delivered on the given channel. A nil preferences row permits everything
// (fail-open). Quiet hours apply to every channel except in_app.
func ShouldSend(prefs *models.NotificationPreferences, notifType enums.NotificationType, channel enums.NotificationChannel, now time.Time) Decision {
	if prefs == nil {
		return allow()
	}

	switch channel {
	case enums.NotificationChannelSMS:
		if !prefs.SMSEnabled {
			return deny("sms disabled")
		}
	case enums.NotificationChannelEmail:
		if !prefs.EmailEnabled {
			return deny("email disabled")
		}
	}

	switch notifType {
	case enums.NotificationTypeTaskDue:
		if !prefs.NotifyTaskDue {
			return deny("task_due notifications disabled")
		}
	case enums.NotificationTypeTaskOverdue:
		if !prefs.NotifyTaskOverdue {
			return deny("task_overdue notifications disabled")
		}
	case enums.NotificationTypeTaskCompleted:
		if !prefs.NotifyTaskCompleted {
			return deny("task_completed notifications disabled")
		}
	}

	if channel != enums.NotificationChannelInApp {
		if InQuietHours(prefs.QuietHoursStart, prefs.QuietHoursEnd, now.Hour()) {
			return deny("quiet hours")
		}
	}

	return allow()
}

// InQuietHours reports whether the given hour falls inside [start, end).
// When start > end the interval wraps past midnight: 21..9 covers hours
// >= 21 or < 9.
func InQuietHours(start, end, hour int) bool {
	if start == end {
		return false
	}
	if start > end {
		return hour >= start || hour < end
	}
	return hour >= start && hour < end
}
