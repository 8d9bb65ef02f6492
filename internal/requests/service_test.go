package requests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/supplytrust/compliance-backend/pkg/db/models"
	"github.com/supplytrust/compliance-backend/pkg/enums"
	pkgerrors "github.com/supplytrust/compliance-backend/pkg/errors"
)

type stubRequestRepo struct {
	requests  map[uuid.UUID]*models.DocumentRequest
	createErr error
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: map[uuid.UUID]*models.DocumentRequest{}}
}

func (r *stubRequestRepo) CreateWithTx(_ *gorm.DB, request *models.DocumentRequest) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.requests {
		if existing.SupplierID == request.SupplierID &&
			existing.DocumentName == request.DocumentName &&
			existing.Status == enums.RequestStatusPending {
			return errors.New(`duplicate key value violates unique constraint "idx_document_requests_pending"`)
		}
	}
	copied := *request
	r.requests[request.ID] = &copied
	return nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*models.DocumentRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *stubRequestRepo) CompleteWithTx(_ *gorm.DB, id uuid.UUID, at time.Time) error {
	request, ok := r.requests[id]
	if !ok || request.Status != enums.RequestStatusPending {
		return gorm.ErrRecordNotFound
	}
	request.Status = enums.RequestStatusCompleted
	request.CompletedAt = &at
	return nil
}

func (r *stubRequestRepo) ListBySupplier(_ context.Context, supplierID uuid.UUID, status enums.RequestStatus) ([]models.DocumentRequest, error) {
	var rows []models.DocumentRequest
	for _, request := range r.requests {
		if request.SupplierID != supplierID {
			continue
		}
		if status != "" && request.Status != status {
			continue
		}
		rows = append(rows, *request)
	}
	return rows, nil
}

type stubDocumentRepo struct {
	created []*models.Document
}

func (r *stubDocumentRepo) CreateWithTx(_ *gorm.DB, doc *models.Document) error {
	copied := *doc
	r.created = append(r.created, &copied)
	return nil
}

type stubSupplierRepo struct {
	exists bool
}

func (r *stubSupplierRepo) Exists(context.Context, uuid.UUID) (bool, error) {
	return r.exists, nil
}

type stubStateRepo struct {
	deleted []string
}

func (r *stubStateRepo) DeleteWithTx(_ *gorm.DB, ids ...string) error {
	r.deleted = append(r.deleted, ids...)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fixture struct {
	svc       Service
	repo      *stubRequestRepo
	documents *stubDocumentRepo
	suppliers *stubSupplierRepo
	states    *stubStateRepo
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{
		repo:      newStubRequestRepo(),
		documents: &stubDocumentRepo{},
		suppliers: &stubSupplierRepo{exists: true},
		states:    &stubStateRepo{},
		now:       time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
	svc, err := NewService(ServiceParams{
		Repo:         fx.repo,
		DocumentRepo: fx.documents,
		SupplierRepo: fx.suppliers,
		StateRepo:    fx.states,
		DB:           stubTxRunner{},
	})
	require.NoError(t, err)
	svc.(*service).now = func() time.Time { return fx.now }
	fx.svc = svc
	return fx
}

func errorCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	var perr *pkgerrors.Error
	require.True(t, errors.As(err, &perr), "expected coded error, got %v", err)
	return perr.Code()
}

func TestRequestDocumentCreatesPlaceholder(t *testing.T) {
	fx := newFixture(t)
	supplierID := uuid.New()

	request, err := fx.svc.RequestDocument(context.Background(), "buyer-7", RequestDocumentInput{
		SupplierID:   supplierID,
		DocumentName: "SMETA Audit Report",
		Category:     enums.DocumentCategoryAuditReport,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.RequestStatusPending, request.Status)
	assert.Equal(t, "buyer-7", request.RequestedBy)
	require.Len(t, fx.documents.created, 1)
	placeholder := fx.documents.created[0]
	assert.Equal(t, request.DocumentID, placeholder.ID)
	assert.Equal(t, supplierID, placeholder.SupplierID)
	assert.Equal(t, "SMETA Audit Report", placeholder.Name)
	assert.Equal(t, 0, placeholder.CurrentVersion)
	assert.Equal(t, enums.DocumentStatusPending, placeholder.Status)
	assert.Equal(t, enums.ComplianceStatusNonCompliant, placeholder.ComplianceStatus)
}

func TestRequestDocumentDuplicatePending(t *testing.T) {
	fx := newFixture(t)
	supplierID := uuid.New()
	input := RequestDocumentInput{SupplierID: supplierID, DocumentName: "ISO 14001"}

	_, err := fx.svc.RequestDocument(context.Background(), "buyer-7", input)
	require.NoError(t, err)

	_, err = fx.svc.RequestDocument(context.Background(), "buyer-7", input)
	assert.Equal(t, pkgerrors.CodeDuplicateRequest, errorCode(t, err))
}

func TestRequestDocumentAllowsNewRequestAfterCompletion(t *testing.T) {
	fx := newFixture(t)
	supplierID := uuid.New()
	input := RequestDocumentInput{SupplierID: supplierID, DocumentName: "ISO 14001"}

	first, err := fx.svc.RequestDocument(context.Background(), "buyer-7", input)
	require.NoError(t, err)
	_, err = fx.svc.CompleteRequest(context.Background(), first.ID)
	require.NoError(t, err)

	second, err := fx.svc.RequestDocument(context.Background(), "buyer-7", input)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRequestDocumentUnknownSupplier(t *testing.T) {
	fx := newFixture(t)
	fx.suppliers.exists = false

	_, err := fx.svc.RequestDocument(context.Background(), "buyer-7", RequestDocumentInput{
		SupplierID:   uuid.New(),
		DocumentName: "ISO 14001",
	})
	assert.Equal(t, pkgerrors.CodeInvalidReference, errorCode(t, err))
	assert.Empty(t, fx.documents.created)
}

func TestCompleteRequestPrunesNotificationState(t *testing.T) {
	fx := newFixture(t)

	request, err := fx.svc.RequestDocument(context.Background(), "buyer-7", RequestDocumentInput{
		SupplierID:   uuid.New(),
		DocumentName: "ISO 14001",
	})
	require.NoError(t, err)

	completed, err := fx.svc.CompleteRequest(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, fx.now, *completed.CompletedAt)
	assert.Contains(t, fx.states.deleted, "req-"+request.ID.String())
}

func TestCompleteRequestTwice(t *testing.T) {
	fx := newFixture(t)

	request, err := fx.svc.RequestDocument(context.Background(), "buyer-7", RequestDocumentInput{
		SupplierID:   uuid.New(),
		DocumentName: "ISO 14001",
	})
	require.NoError(t, err)

	_, err = fx.svc.CompleteRequest(context.Background(), request.ID)
	require.NoError(t, err)
	_, err = fx.svc.CompleteRequest(context.Background(), request.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))
}

func TestListRequestsFiltersByStatus(t *testing.T) {
	fx := newFixture(t)
	supplierID := uuid.New()

	first, err := fx.svc.RequestDocument(context.Background(), "buyer-7", RequestDocumentInput{
		SupplierID:   supplierID,
		DocumentName: "ISO 14001",
	})
	require.NoError(t, err)
	_, err = fx.svc.RequestDocument(context.Background(), "buyer-7", RequestDocumentInput{
		SupplierID:   supplierID,
		DocumentName: "ISO 9001",
	})
	require.NoError(t, err)
	_, err = fx.svc.CompleteRequest(context.Background(), first.ID)
	require.NoError(t, err)

	pending, err := fx.svc.ListRequests(context.Background(), supplierID, enums.RequestStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ISO 9001", pending[0].DocumentName)

	all, err := fx.svc.ListRequests(context.Background(), supplierID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListRequestsMissingSupplierIsEmpty(t *testing.T) {
	fx := newFixture(t)
	fx.suppliers.exists = false

	rows, err := fx.svc.ListRequests(context.Background(), uuid.New(), "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
