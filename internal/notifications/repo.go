package notifications

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/supplytrust/compliance-backend/pkg/db/models"
)

// StateRepository persists read/dismiss markers keyed by derived notification
// id. The feed itself is never stored; only these markers are.
type StateRepository struct {
	db *gorm.DB
}

// NewStateRepository binds a GORM DB to notification state operations.
func NewStateRepository(db *gorm.DB) *StateRepository {
	return &StateRepository{db: db}
}

// ListByIDs loads the markers for the given derived ids.
func (r *StateRepository) ListByIDs(ctx context.Context, ids []string) ([]models.NotificationState, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.NotificationState
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert writes a marker, merging the read and dismiss timestamps on conflict.
func (r *StateRepository) Upsert(ctx context.Context, state *models.NotificationState) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"read_at", "dismissed_at", "updated_at"}),
	}).Create(state).Error
}

// Delete removes markers outside a transaction.
func (r *StateRepository) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.NotificationState{}, "id IN ?", ids).Error
}

// DeleteWithTx removes markers inside the caller's transaction. Used when the
// source document or request goes away, so markers never outlive their source.
func (r *StateRepository) DeleteWithTx(tx *gorm.DB, ids ...string) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(ids) == 0 {
		return nil
	}
	return tx.Delete(&models.NotificationState{}, "id IN ?", ids).Error
}

// ListAll returns every stored marker; used by the orphan sweep.
func (r *StateRepository) ListAll(ctx context.Context) ([]models.NotificationState, error) {
	var rows []models.NotificationState
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
