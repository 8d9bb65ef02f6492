package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/supplytrust/compliance-backend/api/middleware"
	"github.com/supplytrust/compliance-backend/internal/requests"
	"github.com/supplytrust/compliance-backend/pkg/db/models"
	"github.com/supplytrust/compliance-backend/pkg/enums"
	pkgerrors "github.com/supplytrust/compliance-backend/pkg/errors"
)

type testRequestsService struct {
	requestFn  func(ctx context.Context, actorID string, input requests.RequestDocumentInput) (*models.DocumentRequest, error)
	getFn      func(ctx context.Context, id uuid.UUID) (*models.DocumentRequest, error)
	completeFn func(ctx context.Context, id uuid.UUID) (*models.DocumentRequest, error)
	listFn     func(ctx context.Context, supplierID uuid.UUID, status enums.RequestStatus) ([]models.DocumentRequest, error)
}

func (s *testRequestsService) RequestDocument(ctx context.Context, actorID string, input requests.RequestDocumentInput) (*models.DocumentRequest, error) {
	if s.requestFn != nil {
		return s.requestFn(ctx, actorID, input)
	}
	return &models.DocumentRequest{}, nil
}

func (s *testRequestsService) GetRequest(ctx context.Context, id uuid.UUID) (*models.DocumentRequest, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &models.DocumentRequest{}, nil
}

func (s *testRequestsService) CompleteRequest(ctx context.Context, id uuid.UUID) (*models.DocumentRequest, error) {
	if s.completeFn != nil {
		return s.completeFn(ctx, id)
	}
	return &models.DocumentRequest{}, nil
}

func (s *testRequestsService) ListRequests(ctx context.Context, supplierID uuid.UUID, status enums.RequestStatus) ([]models.DocumentRequest, error) {
	if s.listFn != nil {
		return s.listFn(ctx, supplierID, status)
	}
	return nil, nil
}

func TestRequestCreateSuccess(t *testing.T) {
	supplierID := uuid.New()
	var gotInput requests.RequestDocumentInput
	svc := &testRequestsService{
		requestFn: func(_ context.Context, actorID string, input requests.RequestDocumentInput) (*models.DocumentRequest, error) {
			if actorID != "buyer-7" {
				t.Fatalf("unexpected actor %q", actorID)
			}
			gotInput = input
			return &models.DocumentRequest{
				ID:           uuid.New(),
				SupplierID:   input.SupplierID,
				DocumentName: input.DocumentName,
				Status:       enums.RequestStatusPending,
			}, nil
		},
	}

	payload := `{"supplier_id":"` + supplierID.String() + `","document_name":"SMETA Audit Report","category":"audit_report"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(payload))
	req = req.WithContext(middleware.WithActorID(req.Context(), "buyer-7"))

	resp := httptest.NewRecorder()
	RequestCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.SupplierID != supplierID {
		t.Fatalf("unexpected supplier %s", gotInput.SupplierID)
	}
	if gotInput.Category != enums.DocumentCategoryAuditReport {
		t.Fatalf("unexpected category %s", gotInput.Category)
	}
}

func TestRequestCreateDuplicateStatus(t *testing.T) {
	svc := &testRequestsService{
		requestFn: func(context.Context, string, requests.RequestDocumentInput) (*models.DocumentRequest, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateRequest, "an open request for this document already exists")
		},
	}

	payload := `{"supplier_id":"` + uuid.NewString() + `","document_name":"ISO 14001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(payload))
	req = req.WithContext(middleware.WithActorID(req.Context(), "buyer-7"))

	resp := httptest.NewRecorder()
	RequestCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeDuplicateRequest) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestRequestCreateRejectsUnknownFields(t *testing.T) {
	svc := &testRequestsService{}
	payload := `{"supplier_id":"` + uuid.NewString() + `","document_name":"x","surprise":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(payload))
	req = req.WithContext(middleware.WithActorID(req.Context(), "buyer-7"))

	resp := httptest.NewRecorder()
	RequestCreate(svc, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestRequestCompleteSuccess(t *testing.T) {
	requestID := uuid.New()
	svc := &testRequestsService{
		completeFn: func(_ context.Context, id uuid.UUID) (*models.DocumentRequest, error) {
			if id != requestID {
				t.Fatalf("unexpected request %s", id)
			}
			return &models.DocumentRequest{ID: id, Status: enums.RequestStatusCompleted}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests/"+requestID.String()+"/complete", nil)
	req = withRouteParam(req, "requestID", requestID.String())

	resp := httptest.NewRecorder()
	RequestComplete(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data requestResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Data.Status != enums.RequestStatusCompleted {
		t.Fatalf("unexpected status %s", envelope.Data.Status)
	}
}

func TestRequestListParsesStatus(t *testing.T) {
	supplierID := uuid.New()
	var gotStatus enums.RequestStatus
	svc := &testRequestsService{
		listFn: func(_ context.Context, sid uuid.UUID, status enums.RequestStatus) ([]models.DocumentRequest, error) {
			if sid != supplierID {
				t.Fatalf("unexpected supplier %s", sid)
			}
			gotStatus = status
			return []models.DocumentRequest{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/suppliers/"+supplierID.String()+"/requests?status=pending", nil)
	req = withRouteParam(req, "supplierID", supplierID.String())

	resp := httptest.NewRecorder()
	RequestList(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if gotStatus != enums.RequestStatusPending {
		t.Fatalf("unexpected status filter %s", gotStatus)
	}
}
