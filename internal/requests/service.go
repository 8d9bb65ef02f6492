package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/supplytrust/compliance-backend/pkg/db"
	"github.com/supplytrust/compliance-backend/pkg/db/models"
	"github.com/supplytrust/compliance-backend/pkg/enums"
	pkgerrors "github.com/supplytrust/compliance-backend/pkg/errors"
)

type requestsRepository interface {
	CreateWithTx(tx *gorm.DB, request *models.DocumentRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DocumentRequest, error)
	CompleteWithTx(tx *gorm.DB, id uuid.UUID, at time.Time) error
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, status enums.RequestStatus) ([]models.DocumentRequest, error)
}

type documentsRepository interface {
	CreateWithTx(tx *gorm.DB, doc *models.Document) error
}

type suppliersRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type notificationStateRepository interface {
	DeleteWithTx(tx *gorm.DB, ids ...string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service tracks evidence asked of suppliers. Creating a request also creates
// the placeholder document in the same transaction, so the supplier's listing
// immediately shows what is owed.
type Service interface {
	RequestDocument(ctx context.Context, actorID string, input RequestDocumentInput) (*models.DocumentRequest, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*models.DocumentRequest, error)
	CompleteRequest(ctx context.Context, id uuid.UUID) (*models.DocumentRequest, error)
	ListRequests(ctx context.Context, supplierID uuid.UUID, status enums.RequestStatus) ([]models.DocumentRequest, error)
}

// RequestDocumentInput describes the evidence being asked for.
type RequestDocumentInput struct {
	SupplierID   uuid.UUID
	DocumentName string
	Category     enums.DocumentCategory
	Note         *string
}

// ServiceParams wires the request tracker dependencies.
type ServiceParams struct {
	Repo         requestsRepository
	DocumentRepo documentsRepository
	SupplierRepo suppliersRepository
	StateRepo    notificationStateRepository
	DB           txRunner
}

type service struct {
	repo         requestsRepository
	documentRepo documentsRepository
	supplierRepo suppliersRepository
	stateRepo    notificationStateRepository
	db           txRunner
	now          func() time.Time
}

// NewService builds the request tracker.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if params.DocumentRepo == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	if params.SupplierRepo == nil {
		return nil, fmt.Errorf("suppliers repository required")
	}
	if params.StateRepo == nil {
		return nil, fmt.Errorf("notification state repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{
		repo:         params.Repo,
		documentRepo: params.DocumentRepo,
		supplierRepo: params.SupplierRepo,
		stateRepo:    params.StateRepo,
		db:           params.DB,
		now:          time.Now,
	}, nil
}

func (s *service) RequestDocument(ctx context.Context, actorID string, input RequestDocumentInput) (*models.DocumentRequest, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor identity missing")
	}
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	name := strings.TrimSpace(input.DocumentName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document name is required")
	}
	if input.Category == "" {
		input.Category = enums.DocumentCategoryOther
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid document category")
	}

	exists, err := s.supplierRepo.Exists(ctx, input.SupplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check supplier")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidReference, "supplier does not exist")
	}

	now := s.now()
	request := &models.DocumentRequest{
		ID:           uuid.New(),
		SupplierID:   input.SupplierID,
		DocumentName: name,
		Status:       enums.RequestStatusPending,
		RequestedAt:  now,
		RequestedBy:  actorID,
	}
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		placeholder := &models.Document{
			ID:               uuid.New(),
			SupplierID:       input.SupplierID,
			Name:             name,
			Category:         input.Category,
			Note:             input.Note,
			Status:           enums.DocumentStatusPending,
			ComplianceStatus: enums.ComplianceStatusNonCompliant,
		}
		if err := s.documentRepo.CreateWithTx(tx, placeholder); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create placeholder document")
		}
		request.DocumentID = placeholder.ID
		if err := s.repo.CreateWithTx(tx, request); err != nil {
			if db.IsUniqueViolation(err, "idx_document_requests_pending") {
				return pkgerrors.New(pkgerrors.CodeDuplicateRequest, "an open request for this document already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) GetRequest(ctx context.Context, id uuid.UUID) (*models.DocumentRequest, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup request")
	}
	return request, nil
}

// CompleteRequest closes a request by hand, without an upload. The placeholder
// document stays behind as a pending entry until evidence arrives or it is
// deleted.
func (s *service) CompleteRequest(ctx context.Context, id uuid.UUID) (*models.DocumentRequest, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CompleteWithTx(tx, id, s.now()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no pending request with this id")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete request")
		}
		return s.stateRepo.DeleteWithTx(tx, "req-"+id.String())
	})
	if err != nil {
		return nil, err
	}
	return s.GetRequest(ctx, id)
}

func (s *service) ListRequests(ctx context.Context, supplierID uuid.UUID, status enums.RequestStatus) ([]models.DocumentRequest, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if status != "" && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}

	exists, err := s.supplierRepo.Exists(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check supplier")
	}
	if !exists {
		return []models.DocumentRequest{}, nil
	}

	rows, err := s.repo.ListBySupplier(ctx, supplierID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return rows, nil
}
