package documents

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/supplytrust/compliance-backend/pkg/db/models"
	"github.com/supplytrust/compliance-backend/pkg/enums"
)

// errVersionConflict marks a guarded version write that lost the race. The
// service maps it onto the public error taxonomy.
var errVersionConflict = errors.New("document version conflict")

// Repository handles document and version persistence. It carries no
// lifecycle rules; status derivation lives in internal/lifecycle.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to document operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx inserts a new document row inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, doc *models.Document) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(doc).Error
}

// FindByID loads a document by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindByIDWithTx loads a document inside the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Document, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var doc models.Document
	if err := tx.First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns supplier-scoped documents using cursor pagination and the
// optional category/status/search filters.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Document, error) {
	query := r.db.WithContext(ctx).Model(&models.Document{}).Where("supplier_id = ?", opts.supplierID)

	if opts.category != "" {
		query = query.Where("category = ?", opts.category)
	}
	if opts.status != "" {
		query = query.Where("status = ?", opts.status)
	}
	if opts.search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+opts.search+"%")
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Document
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll streams every document; used by the status sweep and the
// notification generator.
func (r *Repository) ListAll(ctx context.Context) ([]models.Document, error) {
	var rows []models.Document
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AddVersionWithTx appends a version guarded by optimistic concurrency: the
// documents row is only advanced when current_version still equals
// version.VersionNumber-1. A stale writer gets errVersionConflict and the
// version row is never inserted.
func (r *Repository) AddVersionWithTx(tx *gorm.DB, version *models.DocumentVersion) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if version == nil || version.VersionNumber < 1 {
		return errors.New("version with positive number is required")
	}

	result := tx.Model(&models.Document{}).
		Where("id = ? AND current_version = ?", version.DocumentID, version.VersionNumber-1).
		UpdateColumn("current_version", version.VersionNumber)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errVersionConflict
	}

	return tx.Create(version).Error
}

// ListVersions returns the version chain for a document, newest first.
func (r *Repository) ListVersions(ctx context.Context, documentID uuid.UUID) ([]models.DocumentVersion, error) {
	var rows []models.DocumentVersion
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("version_number DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindVersionWithTx loads one version row inside the provided transaction.
func (r *Repository) FindVersionWithTx(tx *gorm.DB, documentID uuid.UUID, versionNumber int) (*models.DocumentVersion, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var version models.DocumentVersion
	if err := tx.First(&version, "document_id = ? AND version_number = ?", documentID, versionNumber).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

// DeleteVersionWithTx removes the newest version guarded the same way as
// AddVersionWithTx: current_version must still equal the number being removed.
func (r *Repository) DeleteVersionWithTx(tx *gorm.DB, documentID uuid.UUID, versionNumber int) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}

	result := tx.Model(&models.Document{}).
		Where("id = ? AND current_version = ?", documentID, versionNumber).
		UpdateColumn("current_version", versionNumber-1)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errVersionConflict
	}

	return tx.Delete(&models.DocumentVersion{}, "document_id = ? AND version_number = ?", documentID, versionNumber).Error
}

// UpdateWithTx persists the document inside the provided transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, doc *models.Document) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if doc == nil {
		return errors.New("document is required")
	}
	return tx.Save(doc).Error
}

// UpdateStatusWithTx refreshes the cached derivation columns.
func (r *Repository) UpdateStatusWithTx(tx *gorm.DB, id uuid.UUID, status enums.DocumentStatus, compliance enums.ComplianceStatus) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Document{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":            status,
			"compliance_status": compliance,
		}).Error
}

// DeleteWithTx removes a document and its version chain. Versions are
// deleted explicitly so the cascade does not depend on driver support.
func (r *Repository) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if err := tx.Delete(&models.DocumentVersion{}, "document_id = ?", id).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.DocumentRequest{}, "document_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Document{}, "id = ?", id).Error
}
