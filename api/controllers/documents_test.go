package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/supplytrust/compliance-backend/api/middleware"
	"github.com/supplytrust/compliance-backend/internal/documents"
	"github.com/supplytrust/compliance-backend/pkg/db/models"
	pkgerrors "github.com/supplytrust/compliance-backend/pkg/errors"
	"github.com/supplytrust/compliance-backend/pkg/logger"
)

type testDocumentsService struct {
	listFn          func(ctx context.Context, params documents.ListParams) (*documents.ListResult, error)
	getFn           func(ctx context.Context, documentID uuid.UUID) (*documents.ListItem, error)
	historyFn       func(ctx context.Context, documentID uuid.UUID) ([]models.DocumentVersion, error)
	uploadFn        func(ctx context.Context, actorID string, supplierID uuid.UUID, input documents.UploadDocumentInput) (*documents.ListItem, error)
	uploadVersionFn func(ctx context.Context, actorID string, documentID uuid.UUID, input documents.UploadVersionInput) (*documents.ListItem, error)
	updateFn        func(ctx context.Context, documentID uuid.UUID, input documents.UpdateDocumentInput) (*documents.ListItem, error)
	deleteFn        func(ctx context.Context, documentID uuid.UUID) error
	deleteVersionFn func(ctx context.Context, documentID uuid.UUID, versionNumber int) error
}

func (s *testDocumentsService) ListDocuments(ctx context.Context, params documents.ListParams) (*documents.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &documents.ListResult{}, nil
}

func (s *testDocumentsService) GetDocument(ctx context.Context, documentID uuid.UUID) (*documents.ListItem, error) {
	if s.getFn != nil {
		return s.getFn(ctx, documentID)
	}
	return &documents.ListItem{}, nil
}

func (s *testDocumentsService) GetVersionHistory(ctx context.Context, documentID uuid.UUID) ([]models.DocumentVersion, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, documentID)
	}
	return nil, nil
}

func (s *testDocumentsService) UploadDocument(ctx context.Context, actorID string, supplierID uuid.UUID, input documents.UploadDocumentInput) (*documents.ListItem, error) {
	if s.uploadFn != nil {
		return s.uploadFn(ctx, actorID, supplierID, input)
	}
	return &documents.ListItem{}, nil
}

func (s *testDocumentsService) UploadNewVersion(ctx context.Context, actorID string, documentID uuid.UUID, input documents.UploadVersionInput) (*documents.ListItem, error) {
	if s.uploadVersionFn != nil {
		return s.uploadVersionFn(ctx, actorID, documentID, input)
	}
	return &documents.ListItem{}, nil
}

func (s *testDocumentsService) UpdateDocument(ctx context.Context, documentID uuid.UUID, input documents.UpdateDocumentInput) (*documents.ListItem, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, documentID, input)
	}
	return &documents.ListItem{}, nil
}

func (s *testDocumentsService) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, documentID)
	}
	return nil
}

func (s *testDocumentsService) DeleteVersion(ctx context.Context, documentID uuid.UUID, versionNumber int) error {
	if s.deleteVersionFn != nil {
		return s.deleteVersionFn(ctx, documentID, versionNumber)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func multipartUpload(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create file part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestDocumentUploadSuccess(t *testing.T) {
	supplierID := uuid.New()
	var gotInput documents.UploadDocumentInput
	var gotActor string
	svc := &testDocumentsService{
		uploadFn: func(_ context.Context, actorID string, sid uuid.UUID, input documents.UploadDocumentInput) (*documents.ListItem, error) {
			gotActor = actorID
			gotInput = input
			if sid != supplierID {
				t.Fatalf("unexpected supplier %s", sid)
			}
			return &documents.ListItem{ID: uuid.New(), CurrentVersion: 1}, nil
		},
	}

	body, contentType := multipartUpload(t, map[string]string{
		"name":        "ISO 14001",
		"category":    "certificate",
		"expiry_date": "2027-06-30",
	}, "iso.pdf", []byte("pdf-bytes"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/suppliers/"+supplierID.String()+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.WithActorID(req.Context(), "auditor-1"))
	req = withRouteParam(req, "supplierID", supplierID.String())

	resp := httptest.NewRecorder()
	DocumentUpload(svc, testLogger(), 10)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotActor != "auditor-1" {
		t.Fatalf("unexpected actor %q", gotActor)
	}
	if gotInput.Name != "ISO 14001" {
		t.Fatalf("unexpected name %q", gotInput.Name)
	}
	if gotInput.ExpiryDate == nil || gotInput.ExpiryDate.Format("2006-01-02") != "2027-06-30" {
		t.Fatalf("unexpected expiry %v", gotInput.ExpiryDate)
	}
	if string(gotInput.Content) != "pdf-bytes" {
		t.Fatalf("unexpected content %q", gotInput.Content)
	}
}

func TestDocumentUploadRequiresActor(t *testing.T) {
	svc := &testDocumentsService{}
	body, contentType := multipartUpload(t, map[string]string{"name": "x"}, "x.pdf", []byte("x"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/suppliers/"+uuid.NewString()+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	req = withRouteParam(req, "supplierID", uuid.NewString())

	resp := httptest.NewRecorder()
	DocumentUpload(svc, testLogger(), 10)(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestDocumentUploadVersionPassesExpectedVersion(t *testing.T) {
	documentID := uuid.New()
	var gotInput documents.UploadVersionInput
	svc := &testDocumentsService{
		uploadVersionFn: func(_ context.Context, _ string, did uuid.UUID, input documents.UploadVersionInput) (*documents.ListItem, error) {
			if did != documentID {
				t.Fatalf("unexpected document %s", did)
			}
			gotInput = input
			return &documents.ListItem{ID: documentID, CurrentVersion: 2}, nil
		},
	}

	body, contentType := multipartUpload(t, map[string]string{"expected_version": "2"}, "v2.pdf", []byte("v2"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+documentID.String()+"/versions", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.WithActorID(req.Context(), "auditor-1"))
	req = withRouteParam(req, "documentID", documentID.String())

	resp := httptest.NewRecorder()
	DocumentUploadVersion(svc, testLogger(), 10)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.ExpectedVersion != 2 {
		t.Fatalf("unexpected expected_version %d", gotInput.ExpectedVersion)
	}
}

func TestDocumentUploadVersionConflictStatus(t *testing.T) {
	documentID := uuid.New()
	svc := &testDocumentsService{
		uploadVersionFn: func(context.Context, string, uuid.UUID, documents.UploadVersionInput) (*documents.ListItem, error) {
			return nil, pkgerrors.New(pkgerrors.CodeVersionConflict, "expected version is stale")
		},
	}

	body, contentType := multipartUpload(t, nil, "v2.pdf", []byte("v2"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+documentID.String()+"/versions", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.WithActorID(req.Context(), "auditor-1"))
	req = withRouteParam(req, "documentID", documentID.String())

	resp := httptest.NewRecorder()
	DocumentUploadVersion(svc, testLogger(), 10)(resp, req)

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
	if envelope.Error.Code != string(pkgerrors.CodeVersionConflict) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestDocumentListParsesFilters(t *testing.T) {
	supplierID := uuid.New()
	var gotParams documents.ListParams
	svc := &testDocumentsService{
		listFn: func(_ context.Context, params documents.ListParams) (*documents.ListResult, error) {
			gotParams = params
			return &documents.ListResult{Items: []documents.ListItem{}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/suppliers/"+supplierID.String()+"/documents?category=certificate&status=expiring_soon&search=iso&limit=10", nil)
	req = withRouteParam(req, "supplierID", supplierID.String())

	resp := httptest.NewRecorder()
	DocumentList(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotParams.SupplierID != supplierID {
		t.Fatalf("unexpected supplier %s", gotParams.SupplierID)
	}
	if string(gotParams.Category) != "certificate" || string(gotParams.Status) != "expiring_soon" {
		t.Fatalf("unexpected filters %v %v", gotParams.Category, gotParams.Status)
	}
	if gotParams.Search != "iso" || gotParams.Limit != 10 {
		t.Fatalf("unexpected search/limit %q %d", gotParams.Search, gotParams.Limit)
	}
}

func TestDocumentListRejectsBadStatus(t *testing.T) {
	svc := &testDocumentsService{}
	supplierID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/suppliers/"+supplierID+"/documents?status=bogus", nil)
	req = withRouteParam(req, "supplierID", supplierID)

	resp := httptest.NewRecorder()
	DocumentList(svc, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestDocumentDeleteVersionParsesNumber(t *testing.T) {
	documentID := uuid.New()
	var gotVersion int
	svc := &testDocumentsService{
		deleteVersionFn: func(_ context.Context, _ uuid.UUID, versionNumber int) error {
			gotVersion = versionNumber
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+documentID.String()+"/versions/3", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("documentID", documentID.String())
	routeCtx.URLParams.Add("versionNumber", "3")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	DocumentDeleteVersion(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if gotVersion != 3 {
		t.Fatalf("unexpected version %d", gotVersion)
	}
}
