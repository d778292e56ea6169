package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeDelayDetected     NotificationType = "ai_delay_detected"
	TypePayrollValidation NotificationType = "payroll_validation_completed"
	TypeImageVerification NotificationType = "image_verification_completed"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeDelayDetected,
		TypePayrollValidation,
		TypeImageVerification,
	}
}

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
