package models

import "time"

// NotificationState keeps durable read/dismiss markers for the regenerated
// notification feed. The primary key is the derived notification id
// (doc-<uuid> or req-<uuid>), so regeneration is idempotent and markers
// survive until the source entity is deleted or resolved.
type NotificationState struct {
	ID          string     `gorm:"column:id;primaryKey"`
	ReadAt      *time.Time `gorm:"column:read_at"`
	DismissedAt *time.Time `gorm:"column:dismissed_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
