package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"github.com/casfod/stafff-portal-backend-sub001/internal/storage"
	"github.com/casfod/stafff-portal-backend-sub001/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileService owns file metadata rows and the association index binding
// them to documents. Binary payloads live in the external object store and
// are referenced by key only.
type FileService struct {
	db      *gorm.DB
	store   storage.ObjectStore
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewFileService(db *gorm.DB, store storage.ObjectStore, logger *zap.Logger, metrics *metrics.Collector) *FileService {
	return &FileService{
		db:      db,
		store:   store,
		logger:  logger.With(zap.String("service", "file_service")),
		metrics: metrics,
	}
}

// Upload pushes a buffer to the object store and records the file row. The
// row is only written once the object exists; a failed insert leaves an
// orphaned object, which a sweep can prune by comparing keys.
func (s *FileService) Upload(ctx context.Context, p lifecycle.Principal, name, contentType string, data []byte) (*models.File, error) {
	if s.store == nil {
		return nil, errors.New("object storage is not configured")
	}
	if len(data) == 0 {
		return nil, &lifecycle.ValidationError{Field: "file", Message: "must not be empty"}
	}

	obj, err := s.store.Upload(ctx, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}

	file := &models.File{
		ID:          uuid.NewString(),
		Key:         obj.Key,
		URL:         obj.URL,
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedBy:  p.ID,
	}
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, fmt.Errorf("record file: %w", err)
	}
	s.metrics.ObserveSize("file_upload_bytes", float64(len(data)))
	s.logger.Info("file uploaded",
		zap.String("file_id", file.ID), zap.String("key", obj.Key), zap.Uint("uploaded_by", p.ID))
	return file, nil
}

func (s *FileService) Get(ctx context.Context, fileID string) (*models.File, error) {
	var file models.File
	err := s.db.WithContext(ctx).Take(&file, "id = ?", fileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, lifecycle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// DeleteFile removes the file's associations and its row, then the stored
// object. Uploader or admin only. Object deletion runs last and best-effort:
// a leftover object is prunable, a dangling row is not.
func (s *FileService) DeleteFile(ctx context.Context, fileID string, p lifecycle.Principal) error {
	file, err := s.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if file.UploadedBy != p.ID && !p.Role.AtLeast(models.RoleAdmin) {
		return lifecycle.ErrCreatorMismatch
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", fileID).Delete(&models.FileAssociation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.File{}, "id = ?", fileID).Error
	})
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if s.store != nil {
		if err := s.store.Delete(ctx, file.Key); err != nil {
			s.logger.Warn("object deletion failed, key left for sweep",
				zap.String("key", file.Key), zap.Error(err))
		}
	}
	return nil
}

// Attach binds a file to a (kind, document, field) location. Duplicate
// attaches for the same tuple are permitted and create distinct rows;
// callers wanting at-most-one-per-field deduplicate before calling.
func (s *FileService) Attach(ctx context.Context, fileID string, kind models.DocumentKind, docID, fieldName string) (*models.FileAssociation, error) {
	if !kind.Valid() {
		return nil, &lifecycle.ValidationError{Field: "document_kind", Message: "unknown document kind"}
	}
	if _, err := s.Get(ctx, fileID); err != nil {
		return nil, err
	}

	assoc := &models.FileAssociation{
		ID:           uuid.NewString(),
		FileID:       fileID,
		DocumentKind: kind,
		DocumentID:   docID,
		FieldName:    fieldName,
	}
	if err := s.db.WithContext(ctx).Create(assoc).Error; err != nil {
		return nil, fmt.Errorf("attach file: %w", err)
	}
	s.metrics.IncrementCounter("files_attached", map[string]string{"kind": string(kind)})
	return assoc, nil
}

// ListFor returns a document's associations in creation order, optionally
// narrowed to one field.
func (s *FileService) ListFor(ctx context.Context, kind models.DocumentKind, docID string, fieldName *string) ([]models.FileAssociation, error) {
	var assocs []models.FileAssociation
	q := s.db.WithContext(ctx).
		Where("document_kind = ? AND document_id = ?", kind, docID).
		Order("created_at ASC")
	if fieldName != nil {
		q = q.Where("field_name = ?", *fieldName)
	}
	if err := q.Find(&assocs).Error; err != nil {
		return nil, err
	}
	return assocs, nil
}

// ListForFile answers the reverse lookup: which documents reference a file.
func (s *FileService) ListForFile(ctx context.Context, fileID string) ([]models.FileAssociation, error) {
	var assocs []models.FileAssociation
	if err := s.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Order("created_at ASC").
		Find(&assocs).Error; err != nil {
		return nil, err
	}
	return assocs, nil
}

func (s *FileService) Detach(ctx context.Context, assocID string) error {
	res := s.db.WithContext(ctx).Delete(&models.FileAssociation{}, "id = ?", assocID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

// DetachAllFor drops every association of a document. Runs before (or in the
// same transaction as) the document's own deletion, never after.
func (s *FileService) DetachAllFor(ctx context.Context, kind models.DocumentKind, docID string) error {
	return s.db.WithContext(ctx).
		Where("document_kind = ? AND document_id = ?", kind, docID).
		Delete(&models.FileAssociation{}).Error
}
