package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/supplytrust/compliance-backend/pkg/enums"
)

// Document is one logical piece of compliance evidence tied to a supplier.
// Status and ComplianceStatus cache the lifecycle derivation; they are
// refreshed on every write and by the scheduled status sweep as wall-clock
// time moves documents across expiry boundaries.
type Document struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID       uuid.UUID              `gorm:"column:supplier_id;type:uuid;not null;index"`
	Name             string                 `gorm:"column:name;not null"`
	Category         enums.DocumentCategory `gorm:"column:category;type:document_category;not null;default:'other'"`
	ExpiryDate       *time.Time             `gorm:"column:expiry_date"`
	Note             *string                `gorm:"column:note;type:text"`
	Tags             *string                `gorm:"column:tags;type:text"`
	CurrentVersion   int                    `gorm:"column:current_version;not null;default:0"`
	Status           enums.DocumentStatus   `gorm:"column:status;type:document_status;not null;default:'pending'"`
	ComplianceStatus enums.ComplianceStatus `gorm:"column:compliance_status;type:compliance_status;not null;default:'non_compliant'"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`

	Versions []DocumentVersion `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// HasContent reports whether any real (non-placeholder) version exists.
func (d Document) HasContent() bool {
	return d.CurrentVersion > 0
}
