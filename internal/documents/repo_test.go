package documents

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/supplytrust/compliance-backend/pkg/db/models"
	"github.com/supplytrust/compliance-backend/pkg/enums"
)

// The model tags carry postgres-only column defaults, so the schema is laid
// down with raw DDL instead of AutoMigrate.
const repoTestSchema = `
CREATE TABLE documents (
	id TEXT PRIMARY KEY,
	supplier_id TEXT NOT NULL,
	name TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT 'other',
	expiry_date DATETIME,
	note TEXT,
	tags TEXT,
	current_version INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'pending',
	compliance_status TEXT NOT NULL DEFAULT 'non_compliant',
	created_at DATETIME,
	updated_at DATETIME
);
CREATE TABLE document_versions (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	version_number INTEGER NOT NULL,
	file_path TEXT,
	uploaded_at DATETIME,
	uploaded_by TEXT NOT NULL,
	previous_version_id TEXT,
	UNIQUE (document_id, version_number)
);
`

func openRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(repoTestSchema).Error)
	return conn
}

func seedDocumentWithVersion(t *testing.T, conn *gorm.DB) *models.Document {
	t.Helper()
	doc := &models.Document{
		ID:               uuid.New(),
		SupplierID:       uuid.New(),
		Name:             "ISO 9001 Certificate",
		Category:         enums.DocumentCategoryCertificate,
		CurrentVersion:   1,
		Status:           enums.DocumentStatusActive,
		ComplianceStatus: enums.ComplianceStatusCompliant,
	}
	require.NoError(t, conn.Create(doc).Error)
	require.NoError(t, conn.Create(&models.DocumentVersion{
		ID:            uuid.New(),
		DocumentID:    doc.ID,
		VersionNumber: 1,
		UploadedAt:    time.Now().UTC(),
		UploadedBy:    "auditor-1",
	}).Error)
	return doc
}

func TestAddVersionWithTxAllowsExactlyOneWriter(t *testing.T) {
	conn := openRepoDB(t)
	repo := NewRepository(conn)
	doc := seedDocumentWithVersion(t, conn)

	// Both writers read the document at version 1 and race to append
	// version 2. The guarded UPDATE must admit exactly one of them.
	append2 := func(uploader string) error {
		return conn.Transaction(func(tx *gorm.DB) error {
			return repo.AddVersionWithTx(tx, &models.DocumentVersion{
				ID:            uuid.New(),
				DocumentID:    doc.ID,
				VersionNumber: 2,
				UploadedAt:    time.Now().UTC(),
				UploadedBy:    uploader,
			})
		})
	}

	require.NoError(t, append2("auditor-1"))
	err := append2("auditor-2")
	assert.ErrorIs(t, err, errVersionConflict)

	fresh, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.CurrentVersion)

	versions, err := repo.ListVersions(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2, "the losing writer must not insert a row")
	assert.Equal(t, "auditor-1", versions[0].UploadedBy)
}

func TestAddVersionWithTxRejectsSkippedNumbers(t *testing.T) {
	conn := openRepoDB(t)
	repo := NewRepository(conn)
	doc := seedDocumentWithVersion(t, conn)

	err := conn.Transaction(func(tx *gorm.DB) error {
		return repo.AddVersionWithTx(tx, &models.DocumentVersion{
			ID:            uuid.New(),
			DocumentID:    doc.ID,
			VersionNumber: 4,
			UploadedBy:    "auditor-1",
		})
	})
	assert.ErrorIs(t, err, errVersionConflict)
}

func TestDeleteVersionWithTxOnlyRemovesTheNewest(t *testing.T) {
	conn := openRepoDB(t)
	repo := NewRepository(conn)
	doc := seedDocumentWithVersion(t, conn)

	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return repo.AddVersionWithTx(tx, &models.DocumentVersion{
			ID:            uuid.New(),
			DocumentID:    doc.ID,
			VersionNumber: 2,
			UploadedBy:    "auditor-2",
		})
	}))

	err := conn.Transaction(func(tx *gorm.DB) error {
		return repo.DeleteVersionWithTx(tx, doc.ID, 1)
	})
	assert.ErrorIs(t, err, errVersionConflict, "version 1 is no longer the newest")

	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return repo.DeleteVersionWithTx(tx, doc.ID, 2)
	}))

	fresh, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.CurrentVersion)

	versions, err := repo.ListVersions(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].VersionNumber)
}

func TestVersionWritesRequireTransaction(t *testing.T) {
	repo := NewRepository(openRepoDB(t))

	err := repo.AddVersionWithTx(nil, &models.DocumentVersion{VersionNumber: 1})
	assert.ErrorIs(t, err, gorm.ErrInvalidTransaction)

	err = repo.DeleteVersionWithTx(nil, uuid.New(), 1)
	assert.ErrorIs(t, err, gorm.ErrInvalidTransaction)
}
