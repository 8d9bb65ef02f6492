package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is reference data owned by the supplier management system; the
// compliance engine only reads it to validate document and request targets.
type Supplier struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
