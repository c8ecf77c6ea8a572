package domain

import "time"

// NotificationType is the display severity of a user notification.
type NotificationType string

// Notification types.
const (
	NotificationTypeInfo    NotificationType = "Info"
	NotificationTypeSuccess NotificationType = "Success"
	NotificationTypeWarning NotificationType = "Warning"
	NotificationTypeError   NotificationType = "Error"
)

// IsValid checks if the notification type is one of the known values.
func (t NotificationType) IsValid() bool {
	return t == NotificationTypeInfo || t == NotificationTypeSuccess ||
		t == NotificationTypeWarning || t == NotificationTypeError
}

// Notification is a user-visible message created by incident lifecycle
// subscribers. Only the IsRead flag is mutable after creation.
type Notification struct {
	ID          string
	OwnerUserID string
	Title       string
	Message     string
	Type        NotificationType
	IsRead      bool
	CreatedAt   time.Time
	IncidentID  *string
}
