package requests

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/supplytrust/compliance-backend/pkg/db/models"
	"github.com/supplytrust/compliance-backend/pkg/enums"
)

// Repository handles document request persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to request operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx inserts a request inside the provided transaction. A partial
// unique index on pending (supplier_id, document_name) makes duplicate open
// requests fail at the database.
func (r *Repository) CreateWithTx(tx *gorm.DB, request *models.DocumentRequest) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if request == nil {
		return errors.New("request is required")
	}
	return tx.Create(request).Error
}

// FindByID loads a request by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DocumentRequest, error) {
	var request models.DocumentRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPendingBySupplierAndName returns the open request matching the exact
// (supplier, document name) pair.
func (r *Repository) FindPendingBySupplierAndName(ctx context.Context, supplierID uuid.UUID, documentName string) (*models.DocumentRequest, error) {
	var request models.DocumentRequest
	err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND document_name = ? AND status = ?", supplierID, documentName, enums.RequestStatusPending).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPendingBySupplierAndNameWithTx is the transactional variant used while
// an upload decides whether it fulfils an open request.
func (r *Repository) FindPendingBySupplierAndNameWithTx(tx *gorm.DB, supplierID uuid.UUID, documentName string) (*models.DocumentRequest, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var request models.DocumentRequest
	err := tx.
		Where("supplier_id = ? AND document_name = ? AND status = ?", supplierID, documentName, enums.RequestStatusPending).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// CompleteWithTx marks a pending request completed. Completing an already
// completed request affects zero rows and reports gorm.ErrRecordNotFound.
func (r *Repository) CompleteWithTx(tx *gorm.DB, id uuid.UUID, at time.Time) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	result := tx.Model(&models.DocumentRequest{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPending).
		Updates(map[string]any{"status": enums.RequestStatusCompleted, "completed_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListBySupplier returns a supplier's requests, optionally filtered by status,
// newest first.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID, status enums.RequestStatus) ([]models.DocumentRequest, error) {
	query := r.db.WithContext(ctx).Where("supplier_id = ?", supplierID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var rows []models.DocumentRequest
	if err := query.Order("requested_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPending streams every open request; used by the notification generator.
func (r *Repository) ListPending(ctx context.Context) ([]models.DocumentRequest, error) {
	var rows []models.DocumentRequest
	if err := r.db.WithContext(ctx).
		Where("status = ?", enums.RequestStatusPending).
		Order("requested_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
