package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeTaskDue             NotificationType = "task_due"
	NotificationTypeTaskOverdue         NotificationType = "task_overdue"
	NotificationTypeTaskCompleted       NotificationType = "task_completed"
	NotificationTypeTaskCreated         NotificationType = "task_created"
	NotificationTypePlantNeedsAttention NotificationType = "plant_needs_attention"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeTaskDue,
	NotificationTypeTaskOverdue,
	NotificationTypeTaskCompleted,
	NotificationTypeTaskCreated,
	NotificationTypePlantNeedsAttention,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

// NotificationChannel maps to the notification_channel enum in Postgres.
type NotificationChannel string

const (
	NotificationChannelInApp NotificationChannel = "in_app"
	NotificationChannelSMS   NotificationChannel = "sms"
	NotificationChannelEmail NotificationChannel = "email"
)

var validNotificationChannels = []NotificationChannel{
	NotificationChannelInApp,
	NotificationChannelSMS,
	NotificationChannelEmail,
}

// IsValid checks whether the given channel matches the canonical enum.
func (c NotificationChannel) IsValid() bool {
	for _, candidate := range validNotificationChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseNotificationChannel converts raw strings into NotificationChannel.
func ParseNotificationChannel(value string) (NotificationChannel, error) {
	for _, candidate := range validNotificationChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification channel %q", value)
}
