package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/supplytrust/compliance-backend/internal/lifecycle"
	"github.com/supplytrust/compliance-backend/pkg/db/models"
	"github.com/supplytrust/compliance-backend/pkg/enums"
	"github.com/supplytrust/compliance-backend/pkg/logger"
)

type documentsRepository interface {
	ListAll(ctx context.Context) ([]models.Document, error)
	UpdateStatusWithTx(tx *gorm.DB, id uuid.UUID, status enums.DocumentStatus, compliance enums.ComplianceStatus) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StatusRefreshJobParams configures the cached-status sweep.
type StatusRefreshJobParams struct {
	Logger       *logger.Logger
	DB           txRunner
	DocumentRepo documentsRepository
	Policy       lifecycle.Policy
}

// NewStatusRefreshJob builds the job that re-derives the cached status and
// compliance columns. Readers derive live values, but the cached columns back
// SQL-level status filtering, so they are swept back in line once per cycle.
func NewStatusRefreshJob(params StatusRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.DocumentRepo == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	return &statusRefreshJob{
		logg:   params.Logger,
		db:     params.DB,
		repo:   params.DocumentRepo,
		policy: params.Policy,
		now:    time.Now,
	}, nil
}

type statusRefreshJob struct {
	logg   *logger.Logger
	db     txRunner
	repo   documentsRepository
	policy lifecycle.Policy
	now    func() time.Time
}

func (j *statusRefreshJob) Name() string { return "document-status-refresh" }

func (j *statusRefreshJob) Run(ctx context.Context) error {
	now := j.now()
	docs, err := j.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	var errs error
	updated := 0
	for _, doc := range docs {
		status := j.policy.Derive(doc.HasContent(), doc.ExpiryDate, now)
		compliance := lifecycle.Classify(status)
		if status == doc.Status && compliance == doc.ComplianceStatus {
			continue
		}
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			return j.repo.UpdateStatusWithTx(tx, doc.ID, status, compliance)
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("document %s: %w", doc.ID, err))
			continue
		}
		updated++
	}

	fields := j.logg.WithField(ctx, "updated", updated)
	j.logg.Info(fields, "status sweep finished")
	return errs
}
