package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/supplytrust/compliance-backend/pkg/enums"
)

// DocumentRequest is a placeholder for evidence asked of a supplier but not
// yet received. DocumentID points at the placeholder document created in the
// same transaction as the request.
type DocumentRequest struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID   uuid.UUID           `gorm:"column:supplier_id;type:uuid;not null;index"`
	DocumentName string              `gorm:"column:document_name;not null"`
	DocumentID   uuid.UUID           `gorm:"column:document_id;type:uuid;not null"`
	Status       enums.RequestStatus `gorm:"column:status;type:request_status;not null;default:'pending'"`
	RequestedAt  time.Time           `gorm:"column:requested_at;autoCreateTime"`
	RequestedBy  string              `gorm:"column:requested_by;not null"`
	CompletedAt  *time.Time          `gorm:"column:completed_at"`
}
