package notifications

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/supplytrust/compliance-backend/internal/lifecycle"
	"github.com/supplytrust/compliance-backend/pkg/db/models"
	"github.com/supplytrust/compliance-backend/pkg/enums"
	pkgerrors "github.com/supplytrust/compliance-backend/pkg/errors"
)

const (
	documentIDPrefix = "doc-"
	requestIDPrefix  = "req-"
)

type documentsRepository interface {
	ListAll(ctx context.Context) ([]models.Document, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
}

type requestsRepository interface {
	ListPending(ctx context.Context) ([]models.DocumentRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.DocumentRequest, error)
}

type stateRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.NotificationState, error)
	ListAll(ctx context.Context) ([]models.NotificationState, error)
	Upsert(ctx context.Context, state *models.NotificationState) error
	Delete(ctx context.Context, ids ...string) error
}

// Notification is one derived feed entry. It is never stored; every call to
// ListNotifications recomputes the feed from documents and open requests, so
// two calls with no intervening writes return identical results.
type Notification struct {
	ID              string                     `json:"id"`
	Source          enums.NotificationSource   `json:"source"`
	Priority        enums.NotificationPriority `json:"priority"`
	SupplierID      uuid.UUID                  `json:"supplier_id"`
	Title           string                     `json:"title"`
	Description     string                     `json:"description"`
	DaysUntilExpiry *int                       `json:"days_until_expiry,omitempty"`
	Read            bool                       `json:"read"`
}

// Service derives the notification feed and tracks durable read/dismiss
// markers keyed by derived id.
type Service interface {
	ListNotifications(ctx context.Context, supplierID uuid.UUID) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	Dismiss(ctx context.Context, id string) error
	PruneOrphans(ctx context.Context) (int, error)
}

// ServiceParams wires the notification generator dependencies.
type ServiceParams struct {
	DocumentRepo documentsRepository
	RequestRepo  requestsRepository
	StateRepo    stateRepository
	Policy       lifecycle.Policy
}

type service struct {
	documentRepo documentsRepository
	requestRepo  requestsRepository
	stateRepo    stateRepository
	policy       lifecycle.Policy
	now          func() time.Time
}

// NewService builds the notification generator.
func NewService(params ServiceParams) (Service, error) {
	if params.DocumentRepo == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	if params.RequestRepo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if params.StateRepo == nil {
		return nil, fmt.Errorf("notification state repository required")
	}
	return &service{
		documentRepo: params.DocumentRepo,
		requestRepo:  params.RequestRepo,
		stateRepo:    params.StateRepo,
		policy:       params.Policy,
		now:          time.Now,
	}, nil
}

// ListNotifications regenerates the feed. A uuid.Nil supplier id means every
// supplier. Dismissed entries are filtered out; read entries stay with their
// flag set.
func (s *service) ListNotifications(ctx context.Context, supplierID uuid.UUID) ([]Notification, error) {
	now := s.now()

	docs, err := s.documentRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list documents")
	}
	requests, err := s.requestRepo.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending requests")
	}

	feed := []Notification{}
	for _, doc := range docs {
		if supplierID != uuid.Nil && doc.SupplierID != supplierID {
			continue
		}
		if n, ok := s.fromDocument(doc, now); ok {
			feed = append(feed, n)
		}
	}
	for _, request := range requests {
		if supplierID != uuid.Nil && request.SupplierID != supplierID {
			continue
		}
		feed = append(feed, fromRequest(request))
	}

	ids := make([]string, len(feed))
	for i, n := range feed {
		ids[i] = n.ID
	}
	states, err := s.stateRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notification state")
	}
	byID := make(map[string]models.NotificationState, len(states))
	for _, state := range states {
		byID[state.ID] = state
	}

	visible := feed[:0]
	for _, n := range feed {
		state, ok := byID[n.ID]
		if ok && state.DismissedAt != nil {
			continue
		}
		n.Read = ok && state.ReadAt != nil
		visible = append(visible, n)
	}

	sort.Slice(visible, func(i, j int) bool {
		ri, rj := priorityRank(visible[i].Priority), priorityRank(visible[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return visible[i].ID < visible[j].ID
	})
	return visible, nil
}

func (s *service) MarkRead(ctx context.Context, id string) error {
	return s.mark(ctx, id, func(state *models.NotificationState, now time.Time) {
		state.ReadAt = &now
	})
}

// Dismiss hides a notification from the feed until its source state changes
// enough to delete the marker. A dismissed entry is implicitly read.
func (s *service) Dismiss(ctx context.Context, id string) error {
	return s.mark(ctx, id, func(state *models.NotificationState, now time.Time) {
		if state.ReadAt == nil {
			state.ReadAt = &now
		}
		state.DismissedAt = &now
	})
}

func (s *service) mark(ctx context.Context, id string, apply func(*models.NotificationState, time.Time)) error {
	if err := s.verifyLive(ctx, id); err != nil {
		return err
	}

	now := s.now()
	state := &models.NotificationState{ID: id}
	existing, err := s.stateRepo.ListByIDs(ctx, []string{id})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notification state")
	}
	if len(existing) > 0 {
		state = &existing[0]
	}
	apply(state, now)
	state.UpdatedAt = now
	if err := s.stateRepo.Upsert(ctx, state); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save notification state")
	}
	return nil
}

// verifyLive checks that the derived id still resolves to a notification the
// generator would emit right now.
func (s *service) verifyLive(ctx context.Context, id string) error {
	switch {
	case strings.HasPrefix(id, documentIDPrefix):
		docID, err := uuid.Parse(strings.TrimPrefix(id, documentIDPrefix))
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "malformed notification id")
		}
		doc, err := s.documentRepo.FindByID(ctx, docID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup document")
		}
		if _, ok := s.fromDocument(*doc, s.now()); !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return nil
	case strings.HasPrefix(id, requestIDPrefix):
		requestID, err := uuid.Parse(strings.TrimPrefix(id, requestIDPrefix))
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "malformed notification id")
		}
		request, err := s.requestRepo.FindByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup request")
		}
		if request.Status != enums.RequestStatusPending {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "malformed notification id")
	}
}

// PruneOrphans deletes markers whose source entity no longer yields a
// notification. Run periodically so resolved documents and completed requests
// do not leave stale rows behind.
func (s *service) PruneOrphans(ctx context.Context) (int, error) {
	states, err := s.stateRepo.ListAll(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notification state")
	}
	if len(states) == 0 {
		return 0, nil
	}

	now := s.now()
	docs, err := s.documentRepo.ListAll(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list documents")
	}
	requests, err := s.requestRepo.ListPending(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending requests")
	}

	live := make(map[string]struct{}, len(docs)+len(requests))
	for _, doc := range docs {
		if n, ok := s.fromDocument(doc, now); ok {
			live[n.ID] = struct{}{}
		}
	}
	for _, request := range requests {
		live[requestIDPrefix+request.ID.String()] = struct{}{}
	}

	var orphans []string
	for _, state := range states {
		if _, ok := live[state.ID]; !ok {
			orphans = append(orphans, state.ID)
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}
	if err := s.stateRepo.Delete(ctx, orphans...); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete notification state")
	}
	return len(orphans), nil
}

func (s *service) fromDocument(doc models.Document, now time.Time) (Notification, bool) {
	status := s.policy.Derive(doc.HasContent(), doc.ExpiryDate, now)
	switch status {
	case enums.DocumentStatusExpired:
		days := lifecycle.DaysUntil(*doc.ExpiryDate, now)
		return Notification{
			ID:              documentIDPrefix + doc.ID.String(),
			Source:          enums.NotificationSourceDocument,
			Priority:        enums.NotificationPriorityHigh,
			SupplierID:      doc.SupplierID,
			Title:           "Document expired",
			Description:     fmt.Sprintf("%q expired on %s.", doc.Name, doc.ExpiryDate.Format("2006-01-02")),
			DaysUntilExpiry: &days,
		}, true
	case enums.DocumentStatusExpiringSoon:
		days := lifecycle.DaysUntil(*doc.ExpiryDate, now)
		return Notification{
			ID:              documentIDPrefix + doc.ID.String(),
			Source:          enums.NotificationSourceDocument,
			Priority:        enums.NotificationPriorityMedium,
			SupplierID:      doc.SupplierID,
			Title:           "Document expiring soon",
			Description:     fmt.Sprintf("%q expires in %d days.", doc.Name, days),
			DaysUntilExpiry: &days,
		}, true
	default:
		return Notification{}, false
	}
}

func fromRequest(request models.DocumentRequest) Notification {
	return Notification{
		ID:          requestIDPrefix + request.ID.String(),
		Source:      enums.NotificationSourceRequest,
		Priority:    enums.NotificationPriorityMedium,
		SupplierID:  request.SupplierID,
		Title:       "Document requested",
		Description: fmt.Sprintf("%q is still awaiting upload.", request.DocumentName),
	}
}

func priorityRank(priority enums.NotificationPriority) int {
	switch priority {
	case enums.NotificationPriorityHigh:
		return 0
	case enums.NotificationPriorityMedium:
		return 1
	default:
		return 2
	}
}
