package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/supplytrust/compliance-backend/pkg/db/models"
	"github.com/supplytrust/compliance-backend/pkg/enums"
	pkgpagination "github.com/supplytrust/compliance-backend/pkg/pagination"
)

type ListParams struct {
	SupplierID uuid.UUID
	Category   enums.DocumentCategory
	Status     enums.DocumentStatus
	Search     string
	pkgpagination.Params
}

type ListResult struct {
	Items  []ListItem `json:"items"`
	Cursor string     `json:"cursor"`
}

// ListItem is the latest-version-only projection of a document. Status and
// compliance are derived live so a listing never shows a stale boundary.
type ListItem struct {
	ID               uuid.UUID              `json:"id"`
	SupplierID       uuid.UUID              `json:"supplier_id"`
	Name             string                 `json:"name"`
	Category         enums.DocumentCategory `json:"category"`
	ExpiryDate       *time.Time             `json:"expiry_date"`
	Note             *string                `json:"note,omitempty"`
	Tags             *string                `json:"tags,omitempty"`
	CurrentVersion   int                    `json:"current_version"`
	Status           enums.DocumentStatus   `json:"status"`
	ComplianceStatus enums.ComplianceStatus `json:"compliance_status"`
	HasHistory       bool                   `json:"has_history"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	SignedURL        string                 `json:"signed_url,omitempty"`
}

type listQuery struct {
	supplierID uuid.UUID
	category   enums.DocumentCategory
	status     enums.DocumentStatus
	search     string
	limit      int
	cursor     *pkgpagination.Cursor
}

func toListItem(m models.Document, status enums.DocumentStatus, compliance enums.ComplianceStatus) ListItem {
	return ListItem{
		ID:               m.ID,
		SupplierID:       m.SupplierID,
		Name:             m.Name,
		Category:         m.Category,
		ExpiryDate:       m.ExpiryDate,
		Note:             m.Note,
		Tags:             m.Tags,
		CurrentVersion:   m.CurrentVersion,
		Status:           status,
		ComplianceStatus: compliance,
		HasHistory:       m.CurrentVersion > 1,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
