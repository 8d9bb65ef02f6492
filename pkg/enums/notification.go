package enums

import "fmt"

// NotificationPriority orders the generated notification feed.
type NotificationPriority string

const (
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityLow    NotificationPriority = "low"
)

var validNotificationPriorities = []NotificationPriority{
	NotificationPriorityHigh,
	NotificationPriorityMedium,
	NotificationPriorityLow,
}

// String implements fmt.Stringer.
func (n NotificationPriority) String() string {
	return string(n)
}

// IsValid reports whether the value matches the canonical notification priority enum.
func (n NotificationPriority) IsValid() bool {
	for _, candidate := range validNotificationPriorities {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationPriority converts the raw string to NotificationPriority.
func ParseNotificationPriority(value string) (NotificationPriority, error) {
	for _, candidate := range validNotificationPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification priority %q", value)
}

// NotificationSource names the entity type a notification was derived from.
type NotificationSource string

const (
	NotificationSourceDocument NotificationSource = "document"
	NotificationSourceRequest  NotificationSource = "request"
)

// IsValid reports whether the value matches the canonical notification source enum.
func (n NotificationSource) IsValid() bool {
	return n == NotificationSourceDocument || n == NotificationSourceRequest
}
