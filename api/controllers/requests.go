package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/supplytrust/compliance-backend/api/middleware"
	"github.com/supplytrust/compliance-backend/api/responses"
	"github.com/supplytrust/compliance-backend/api/validators"
	"github.com/supplytrust/compliance-backend/internal/requests"
	"github.com/supplytrust/compliance-backend/pkg/db/models"
	"github.com/supplytrust/compliance-backend/pkg/enums"
	pkgerrors "github.com/supplytrust/compliance-backend/pkg/errors"
	"github.com/supplytrust/compliance-backend/pkg/logger"
)

type requestCreateRequest struct {
	SupplierID   string  `json:"supplier_id" validate:"required"`
	DocumentName string  `json:"document_name" validate:"required,min=1,max=255"`
	Category     string  `json:"category"`
	Note         *string `json:"note" validate:"omitempty,max=2000"`
}

func (r requestCreateRequest) toInput() (requests.RequestDocumentInput, error) {
	supplierID, err := uuid.Parse(strings.TrimSpace(r.SupplierID))
	if err != nil {
		return requests.RequestDocumentInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier_id")
	}

	input := requests.RequestDocumentInput{
		SupplierID:   supplierID,
		DocumentName: strings.TrimSpace(r.DocumentName),
		Note:         r.Note,
	}
	if raw := strings.TrimSpace(r.Category); raw != "" {
		category, err := enums.ParseDocumentCategory(raw)
		if err != nil {
			return requests.RequestDocumentInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		input.Category = category
	}
	return input, nil
}

// RequestCreate opens a document request and its placeholder document.
func RequestCreate(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		actorID := middleware.ActorIDFromContext(r.Context())
		if actorID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing"))
			return
		}

		var payload requestCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.RequestDocument(r.Context(), actorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, requestResponseFromModel(created))
	}
}

// RequestGet returns one request by id.
func RequestGet(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		requestID, err := uuid.Parse(chi.URLParam(r, "requestID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id"))
			return
		}

		request, err := svc.GetRequest(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requestResponseFromModel(request))
	}
}

// RequestComplete force-completes a request without an upload.
func RequestComplete(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		requestID, err := uuid.Parse(chi.URLParam(r, "requestID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id"))
			return
		}

		completed, err := svc.CompleteRequest(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requestResponseFromModel(completed))
	}
}

// RequestList returns a supplier's requests, optionally filtered by status.
func RequestList(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request service unavailable"))
			return
		}

		supplierID, err := uuid.Parse(chi.URLParam(r, "supplierID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id"))
			return
		}

		var status enums.RequestStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseRequestStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			status = parsed
		}

		rows, err := svc.ListRequests(r.Context(), supplierID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]requestResponse, len(rows))
		for i := range rows {
			out[i] = requestResponseFromModel(&rows[i])
		}
		responses.WriteSuccess(w, out)
	}
}

type requestResponse struct {
	ID           uuid.UUID           `json:"id"`
	SupplierID   uuid.UUID           `json:"supplier_id"`
	DocumentName string              `json:"document_name"`
	DocumentID   uuid.UUID           `json:"document_id"`
	Status       enums.RequestStatus `json:"status"`
	RequestedAt  time.Time           `json:"requested_at"`
	RequestedBy  string              `json:"requested_by"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
}

func requestResponseFromModel(m *models.DocumentRequest) requestResponse {
	return requestResponse{
		ID:           m.ID,
		SupplierID:   m.SupplierID,
		DocumentName: m.DocumentName,
		DocumentID:   m.DocumentID,
		Status:       m.Status,
		RequestedAt:  m.RequestedAt,
		RequestedBy:  m.RequestedBy,
		CompletedAt:  m.CompletedAt,
	}
}
