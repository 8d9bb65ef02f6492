package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentVersion is one immutable upload event. Versions are append-only;
// superseding a document never mutates or deletes earlier rows, so the full
// audit trail stays reconstructable.
type DocumentVersion struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DocumentID        uuid.UUID  `gorm:"column:document_id;type:uuid;not null;uniqueIndex:idx_document_version_number"`
	VersionNumber     int        `gorm:"column:version_number;not null;uniqueIndex:idx_document_version_number"`
	FilePath          *string    `gorm:"column:file_path"`
	UploadedAt        time.Time  `gorm:"column:uploaded_at;autoCreateTime"`
	UploadedBy        string     `gorm:"column:uploaded_by;not null"`
	PreviousVersionID *uuid.UUID `gorm:"column:previous_version_id;type:uuid"`
}
