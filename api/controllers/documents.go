package controllers

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/supplytrust/compliance-backend/api/middleware"
	"github.com/supplytrust/compliance-backend/api/responses"
	"github.com/supplytrust/compliance-backend/api/validators"
	"github.com/supplytrust/compliance-backend/internal/documents"
	"github.com/supplytrust/compliance-backend/pkg/enums"
	pkgerrors "github.com/supplytrust/compliance-backend/pkg/errors"
	"github.com/supplytrust/compliance-backend/pkg/logger"
	"github.com/supplytrust/compliance-backend/pkg/pagination"
)

const maxDocumentNameLen = 255

// DocumentList handles the supplier-scoped document listing with category,
// status, search and cursor filters.
func DocumentList(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}

		supplierID, err := uuid.Parse(chi.URLParam(r, "supplierID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := documents.ListParams{
			SupplierID: supplierID,
			Search:     validators.SanitizeString(r.URL.Query().Get("search"), maxDocumentNameLen),
		}
		params.Limit = limit
		params.Cursor = strings.TrimSpace(r.URL.Query().Get("cursor"))

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseDocumentCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category filter"))
				return
			}
			params.Category = category
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseDocumentStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			params.Status = status
		}

		result, err := svc.ListDocuments(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DocumentGet returns the latest-version projection of one document.
func DocumentGet(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}

		documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document id"))
			return
		}

		item, err := svc.GetDocument(r.Context(), documentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// DocumentVersions returns the full version chain, newest first.
func DocumentVersions(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}

		documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document id"))
			return
		}

		versions, err := svc.GetVersionHistory(r.Context(), documentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, versions)
	}
}

// DocumentUpload handles a first upload as multipart form data: a "file" part
// plus name/category/expiry_date metadata fields.
func DocumentUpload(svc documents.Service, logg *logger.Logger, maxUploadMB int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}

		actorID := middleware.ActorIDFromContext(r.Context())
		if actorID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing"))
			return
		}

		supplierID, err := uuid.Parse(chi.URLParam(r, "supplierID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id"))
			return
		}

		form, err := parseUploadForm(r, maxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := documents.UploadDocumentInput{
			Name:        form.name,
			ExpiryDate:  form.expiryDate,
			Note:        form.note,
			Tags:        form.tags,
			FileName:    form.fileName,
			ContentType: form.contentType,
			Content:     form.content,
		}
		if form.category != "" {
			category, err := enums.ParseDocumentCategory(form.category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
				return
			}
			input.Category = category
		}

		item, err := svc.UploadDocument(r.Context(), actorID, supplierID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// DocumentUploadVersion appends a new version. The expected_version form field
// carries the optimistic concurrency token.
func DocumentUploadVersion(svc documents.Service, logg *logger.Logger, maxUploadMB int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}

		actorID := middleware.ActorIDFromContext(r.Context())
		if actorID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing"))
			return
		}

		documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document id"))
			return
		}

		form, err := parseUploadForm(r, maxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := documents.UploadVersionInput{
			FileName:    form.fileName,
			ContentType: form.contentType,
			Content:     form.content,
			ExpiryDate:  form.expiryDate,
			ClearExpiry: form.clearExpiry,
		}
		if raw := strings.TrimSpace(r.FormValue("expected_version")); raw != "" {
			expected, err := strconv.Atoi(raw)
			if err != nil || expected < 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "expected_version must be a positive integer"))
				return
			}
			input.ExpectedVersion = expected
		}

		item, err := svc.UploadNewVersion(r.Context(), actorID, documentID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type documentUpdateRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=255"`
	Note        *string    `json:"note" validate:"omitempty,max=2000"`
	Tags        *string    `json:"tags" validate:"omitempty,max=1000"`
	ExpiryDate  *time.Time `json:"expiry_date"`
	ClearExpiry bool       `json:"clear_expiry"`
}

// DocumentUpdate patches document metadata without touching the version chain.
func DocumentUpdate(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}

		documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document id"))
			return
		}

		var payload documentUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateDocument(r.Context(), documentID, documents.UpdateDocumentInput{
			Name:        payload.Name,
			Note:        payload.Note,
			Tags:        payload.Tags,
			ExpiryDate:  payload.ExpiryDate,
			ClearExpiry: payload.ClearExpiry,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// DocumentDelete removes a document, its version chain and blobs.
func DocumentDelete(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}

		documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document id"))
			return
		}

		if err := svc.DeleteDocument(r.Context(), documentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// DocumentDeleteVersion removes the newest version only.
func DocumentDeleteVersion(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}

		documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid document id"))
			return
		}

		versionNumber, err := strconv.Atoi(chi.URLParam(r, "versionNumber"))
		if err != nil || versionNumber < 1 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid version number"))
			return
		}

		if err := svc.DeleteVersion(r.Context(), documentID, versionNumber); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type uploadForm struct {
	name        string
	category    string
	expiryDate  *time.Time
	clearExpiry bool
	note        *string
	tags        *string
	fileName    string
	contentType string
	content     []byte
}

func parseUploadForm(r *http.Request, maxUploadMB int) (*uploadForm, error) {
	if maxUploadMB <= 0 {
		maxUploadMB = 50
	}
	maxBytes := int64(maxUploadMB) << 20
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file part is required")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read file part")
	}

	form := &uploadForm{
		name:        validators.SanitizeString(r.FormValue("name"), maxDocumentNameLen),
		category:    strings.TrimSpace(r.FormValue("category")),
		clearExpiry: strings.EqualFold(strings.TrimSpace(r.FormValue("clear_expiry")), "true"),
		fileName:    header.Filename,
		contentType: header.Header.Get("Content-Type"),
		content:     content,
	}
	if raw := strings.TrimSpace(r.FormValue("expiry_date")); raw != "" {
		expiry, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry_date must be YYYY-MM-DD")
		}
		form.expiryDate = &expiry
	}
	if note := validators.SanitizeString(r.FormValue("note"), 2000); note != "" {
		form.note = &note
	}
	if tags := validators.SanitizeString(r.FormValue("tags"), 1000); tags != "" {
		form.tags = &tags
	}
	return form, nil
}
