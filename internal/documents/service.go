package documents

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/supplytrust/compliance-backend/internal/lifecycle"
	"github.com/supplytrust/compliance-backend/pkg/db/models"
	"github.com/supplytrust/compliance-backend/pkg/enums"
	pkgerrors "github.com/supplytrust/compliance-backend/pkg/errors"
	pkgpagination "github.com/supplytrust/compliance-backend/pkg/pagination"
)

type documentsRepository interface {
	CreateWithTx(tx *gorm.DB, doc *models.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context, opts listQuery) ([]models.Document, error)
	AddVersionWithTx(tx *gorm.DB, version *models.DocumentVersion) error
	ListVersions(ctx context.Context, documentID uuid.UUID) ([]models.DocumentVersion, error)
	FindVersionWithTx(tx *gorm.DB, documentID uuid.UUID, versionNumber int) (*models.DocumentVersion, error)
	DeleteVersionWithTx(tx *gorm.DB, documentID uuid.UUID, versionNumber int) error
	UpdateWithTx(tx *gorm.DB, doc *models.Document) error
	DeleteWithTx(tx *gorm.DB, id uuid.UUID) error
}

type suppliersRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type requestsRepository interface {
	FindPendingBySupplierAndName(ctx context.Context, supplierID uuid.UUID, documentName string) (*models.DocumentRequest, error)
	FindPendingBySupplierAndNameWithTx(tx *gorm.DB, supplierID uuid.UUID, documentName string) (*models.DocumentRequest, error)
	CompleteWithTx(tx *gorm.DB, id uuid.UUID, at time.Time) error
}

type notificationStateRepository interface {
	DeleteWithTx(tx *gorm.DB, ids ...string) error
}

type blobStore interface {
	UploadObject(ctx context.Context, bucket, object string, data []byte, contentType string) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
}

type urlSigner interface {
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the lifecycle facade: the only surface external collaborators
// call for document uploads, versioning, listing and deletion.
type Service interface {
	ListDocuments(ctx context.Context, params ListParams) (*ListResult, error)
	GetDocument(ctx context.Context, documentID uuid.UUID) (*ListItem, error)
	GetVersionHistory(ctx context.Context, documentID uuid.UUID) ([]models.DocumentVersion, error)
	UploadDocument(ctx context.Context, actorID string, supplierID uuid.UUID, input UploadDocumentInput) (*ListItem, error)
	UploadNewVersion(ctx context.Context, actorID string, documentID uuid.UUID, input UploadVersionInput) (*ListItem, error)
	UpdateDocument(ctx context.Context, documentID uuid.UUID, input UpdateDocumentInput) (*ListItem, error)
	DeleteDocument(ctx context.Context, documentID uuid.UUID) error
	DeleteVersion(ctx context.Context, documentID uuid.UUID, versionNumber int) error
}

// UploadDocumentInput holds metadata and content for a first upload.
type UploadDocumentInput struct {
	Name        string
	Category    enums.DocumentCategory
	ExpiryDate  *time.Time
	Note        *string
	Tags        *string
	FileName    string
	ContentType string
	Content     []byte
}

// UploadVersionInput appends a version to an existing document.
// ExpectedVersion is the optimistic-concurrency token: the version number the
// caller expects to create. Zero means "whatever is next".
type UploadVersionInput struct {
	FileName        string
	ContentType     string
	Content         []byte
	ExpectedVersion int
	ExpiryDate      *time.Time
	ClearExpiry     bool
}

// UpdateDocumentInput mutates document metadata; nil fields are left alone.
type UpdateDocumentInput struct {
	Name        *string
	Note        *string
	Tags        *string
	ExpiryDate  *time.Time
	ClearExpiry bool
}

// ServiceParams wires the facade dependencies.
type ServiceParams struct {
	Repo         documentsRepository
	SupplierRepo suppliersRepository
	RequestRepo  requestsRepository
	StateRepo    notificationStateRepository
	Blob         blobStore
	Signer       urlSigner
	DB           txRunner
	Bucket       string
	DownloadTTL  time.Duration
	Policy       lifecycle.Policy
}

type service struct {
	repo         documentsRepository
	supplierRepo suppliersRepository
	requestRepo  requestsRepository
	stateRepo    notificationStateRepository
	blob         blobStore
	signer       urlSigner
	db           txRunner
	bucket       string
	downloadTTL  time.Duration
	policy       lifecycle.Policy
	now          func() time.Time
}

// NewService builds the lifecycle facade.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	if params.SupplierRepo == nil {
		return nil, fmt.Errorf("suppliers repository required")
	}
	if params.RequestRepo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if params.StateRepo == nil {
		return nil, fmt.Errorf("notification state repository required")
	}
	if params.Blob == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Bucket == "" {
		return nil, fmt.Errorf("blob bucket required")
	}
	ttl := params.DownloadTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &service{
		repo:         params.Repo,
		supplierRepo: params.SupplierRepo,
		requestRepo:  params.RequestRepo,
		stateRepo:    params.StateRepo,
		blob:         params.Blob,
		signer:       params.Signer,
		db:           params.DB,
		bucket:       params.Bucket,
		downloadTTL:  ttl,
		policy:       params.Policy,
		now:          time.Now,
	}, nil
}

func (s *service) ListDocuments(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if params.Category != "" && !params.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category filter")
	}
	if params.Status != "" && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}

	// Deleted suppliers are tolerated at read time; their documents simply
	// stop appearing instead of erroring.
	exists, err := s.supplierRepo.Exists(ctx, params.SupplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check supplier")
	}
	if !exists {
		return &ListResult{Items: []ListItem{}}, nil
	}

	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		supplierID: params.SupplierID,
		category:   params.Category,
		status:     params.Status,
		search:     strings.ToLower(strings.TrimSpace(params.Search)),
		limit:      pkgpagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list documents")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	items := make([]ListItem, len(rows))
	for i, row := range rows {
		items[i] = s.project(row)
		url, err := s.signLatest(ctx, row)
		if err != nil {
			return nil, err
		}
		items[i].SignedURL = url
	}

	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

func (s *service) GetDocument(ctx context.Context, documentID uuid.UUID) (*ListItem, error) {
	if documentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup document")
	}
	item := s.project(*doc)
	url, err := s.signLatest(ctx, *doc)
	if err != nil {
		return nil, err
	}
	item.SignedURL = url
	return &item, nil
}

func (s *service) GetVersionHistory(ctx context.Context, documentID uuid.UUID) ([]models.DocumentVersion, error) {
	if documentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	if _, err := s.repo.FindByID(ctx, documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup document")
	}
	versions, err := s.repo.ListVersions(ctx, documentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list versions")
	}
	return versions, nil
}

func (s *service) UploadDocument(ctx context.Context, actorID string, supplierID uuid.UUID, input UploadDocumentInput) (*ListItem, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor identity missing")
	}
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Category == "" {
		input.Category = enums.DocumentCategoryOther
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid document category")
	}
	if len(input.Content) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file content is required")
	}

	exists, err := s.supplierRepo.Exists(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check supplier")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidReference, "supplier does not exist")
	}

	// When the upload fulfils an open request the blob must live under the
	// placeholder document's id, so the request is resolved before the path
	// is fixed. The transactional lookup below stays authoritative.
	docID := uuid.New()
	if pending, err := s.requestRepo.FindPendingBySupplierAndName(ctx, supplierID, name); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "match pending request")
		}
	} else if pending != nil {
		docID = pending.DocumentID
	}
	objectPath := s.objectPath(supplierID, docID, 1, input.FileName)
	if _, err := s.blob.UploadObject(ctx, s.bucket, objectPath, input.Content, input.ContentType); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "write blob")
	}

	now := s.now()
	var doc *models.Document
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		// An upload whose (supplier, name) matches a pending request fulfils
		// it: the placeholder document becomes the real one.
		pending, err := s.requestRepo.FindPendingBySupplierAndNameWithTx(tx, supplierID, name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "match pending request")
		}

		versionNumber := 1
		if pending != nil {
			doc, err = s.repo.FindByIDWithTx(tx, pending.DocumentID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load placeholder document")
			}
			versionNumber = doc.CurrentVersion + 1
			doc.Category = input.Category
		} else {
			doc = &models.Document{
				ID:         docID,
				SupplierID: supplierID,
				Name:       name,
				Category:   input.Category,
			}
			if err := s.repo.CreateWithTx(tx, doc); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create document")
			}
		}

		version := &models.DocumentVersion{
			DocumentID:    doc.ID,
			VersionNumber: versionNumber,
			FilePath:      &objectPath,
			UploadedAt:    now,
			UploadedBy:    actorID,
		}
		if err := s.appendVersion(tx, version); err != nil {
			return err
		}

		doc.ExpiryDate = input.ExpiryDate
		doc.Note = input.Note
		doc.Tags = input.Tags
		doc.CurrentVersion = versionNumber
		s.refreshDerivation(doc, now)
		if err := s.repo.UpdateWithTx(tx, doc); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document")
		}

		if pending != nil {
			if err := s.requestRepo.CompleteWithTx(tx, pending.ID, now); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete request")
			}
			if err := s.stateRepo.DeleteWithTx(tx, "req-"+pending.ID.String()); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prune request notification state")
			}
		}
		return nil
	})
	if err != nil {
		s.cleanupBlob(ctx, objectPath)
		return nil, err
	}

	item := s.project(*doc)
	return &item, nil
}

func (s *service) UploadNewVersion(ctx context.Context, actorID string, documentID uuid.UUID, input UploadVersionInput) (*ListItem, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor identity missing")
	}
	if documentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	if len(input.Content) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file content is required")
	}

	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup document")
	}

	nextVersion := doc.CurrentVersion + 1
	if input.ExpectedVersion != 0 && input.ExpectedVersion != nextVersion {
		return nil, pkgerrors.New(pkgerrors.CodeVersionConflict, "expected version is stale").
			WithDetails(map[string]any{"expected": input.ExpectedVersion, "next": nextVersion})
	}

	objectPath := s.objectPath(doc.SupplierID, doc.ID, nextVersion, input.FileName)
	if _, err := s.blob.UploadObject(ctx, s.bucket, objectPath, input.Content, input.ContentType); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "write blob")
	}

	now := s.now()
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		version := &models.DocumentVersion{
			DocumentID:    doc.ID,
			VersionNumber: nextVersion,
			FilePath:      &objectPath,
			UploadedAt:    now,
			UploadedBy:    actorID,
		}
		if err := s.appendVersion(tx, version); err != nil {
			return err
		}

		fresh, err := s.repo.FindByIDWithTx(tx, doc.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload document")
		}
		if input.ClearExpiry {
			fresh.ExpiryDate = nil
		} else if input.ExpiryDate != nil {
			fresh.ExpiryDate = input.ExpiryDate
		}
		s.refreshDerivation(fresh, now)
		if err := s.repo.UpdateWithTx(tx, fresh); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document")
		}
		doc = fresh
		return nil
	})
	if err != nil {
		s.cleanupBlob(ctx, objectPath)
		return nil, err
	}

	item := s.project(*doc)
	return &item, nil
}

func (s *service) UpdateDocument(ctx context.Context, documentID uuid.UUID, input UpdateDocumentInput) (*ListItem, error) {
	if documentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}

	var doc *models.Document
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		doc, err = s.repo.FindByIDWithTx(tx, documentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup document")
		}

		if input.Name != nil {
			doc.Name = strings.TrimSpace(*input.Name)
		}
		if input.Note != nil {
			doc.Note = input.Note
		}
		if input.Tags != nil {
			doc.Tags = input.Tags
		}
		if input.ClearExpiry {
			doc.ExpiryDate = nil
		} else if input.ExpiryDate != nil {
			doc.ExpiryDate = input.ExpiryDate
		}
		s.refreshDerivation(doc, s.now())
		if err := s.repo.UpdateWithTx(tx, doc); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	item := s.project(*doc)
	return &item, nil
}

func (s *service) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	if documentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}

	var objectPaths []string
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		doc, err := s.repo.FindByIDWithTx(tx, documentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup document")
		}

		for n := doc.CurrentVersion; n >= 1; n-- {
			version, err := s.repo.FindVersionWithTx(tx, doc.ID, n)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load version")
			}
			if version.FilePath != nil {
				objectPaths = append(objectPaths, *version.FilePath)
			}
		}

		if err := s.repo.DeleteWithTx(tx, doc.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete document")
		}
		return s.stateRepo.DeleteWithTx(tx, "doc-"+doc.ID.String())
	})
	if err != nil {
		return err
	}

	// Blob cleanup is best effort; the store is already consistent.
	for _, object := range objectPaths {
		_ = s.blob.DeleteObject(ctx, s.bucket, object)
	}
	return nil
}

func (s *service) DeleteVersion(ctx context.Context, documentID uuid.UUID, versionNumber int) error {
	if documentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	if versionNumber < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "version number must be positive")
	}

	var objectPath *string
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		doc, err := s.repo.FindByIDWithTx(tx, documentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup document")
		}
		if versionNumber != doc.CurrentVersion {
			return pkgerrors.New(pkgerrors.CodeConflict, "only the newest version can be deleted")
		}

		version, err := s.repo.FindVersionWithTx(tx, doc.ID, versionNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "version not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load version")
		}
		objectPath = version.FilePath

		if err := s.repo.DeleteVersionWithTx(tx, doc.ID, versionNumber); err != nil {
			if errors.Is(err, errVersionConflict) {
				return pkgerrors.New(pkgerrors.CodeVersionConflict, "document changed concurrently")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete version")
		}

		fresh, err := s.repo.FindByIDWithTx(tx, doc.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload document")
		}
		s.refreshDerivation(fresh, s.now())
		if err := s.repo.UpdateWithTx(tx, fresh); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if objectPath != nil {
		_ = s.blob.DeleteObject(ctx, s.bucket, *objectPath)
	}
	return nil
}

// appendVersion links the version to its predecessor and appends it under the
// optimistic guard.
func (s *service) appendVersion(tx *gorm.DB, version *models.DocumentVersion) error {
	if version.VersionNumber > 1 {
		prev, err := s.repo.FindVersionWithTx(tx, version.DocumentID, version.VersionNumber-1)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load previous version")
		}
		if prev != nil {
			version.PreviousVersionID = &prev.ID
		}
	}
	if err := s.repo.AddVersionWithTx(tx, version); err != nil {
		if errors.Is(err, errVersionConflict) {
			return pkgerrors.New(pkgerrors.CodeVersionConflict, "document changed concurrently")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append version")
	}
	return nil
}

func (s *service) refreshDerivation(doc *models.Document, now time.Time) {
	doc.Status = s.policy.Derive(doc.HasContent(), doc.ExpiryDate, now)
	doc.ComplianceStatus = lifecycle.Classify(doc.Status)
}

func (s *service) project(doc models.Document) ListItem {
	status := s.policy.Derive(doc.HasContent(), doc.ExpiryDate, s.now())
	return toListItem(doc, status, lifecycle.Classify(status))
}

func (s *service) signLatest(ctx context.Context, doc models.Document) (string, error) {
	if s.signer == nil || !doc.HasContent() {
		return "", nil
	}
	versions, err := s.repo.ListVersions(ctx, doc.ID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list versions")
	}
	for _, version := range versions {
		if version.VersionNumber == doc.CurrentVersion && version.FilePath != nil {
			url, err := s.signer.SignedReadURL(s.bucket, *version.FilePath, s.downloadTTL)
			if err != nil {
				return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign download url")
			}
			return url, nil
		}
	}
	return "", nil
}

func (s *service) objectPath(supplierID, documentID uuid.UUID, versionNumber int, fileName string) string {
	base := path.Base(strings.TrimSpace(fileName))
	if base == "" || base == "." || base == "/" {
		base = "upload.bin"
	}
	return fmt.Sprintf("suppliers/%s/documents/%s/v%d/%s", supplierID, documentID, versionNumber, base)
}

func (s *service) cleanupBlob(ctx context.Context, objectPath string) {
	_ = s.blob.DeleteObject(ctx, s.bucket, objectPath)
}
