package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"github.com/casfod/stafff-portal-backend-sub001/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentService manages the per-document comment sub-thread. Appends are
// independent of status transitions and may interleave with them freely; the
// only guarantee is that both end up durably recorded.
type CommentService struct {
	db      *gorm.DB
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewCommentService(db *gorm.DB, logger *zap.Logger, metrics *metrics.Collector) *CommentService {
	return &CommentService{
		db:      db,
		logger:  logger.With(zap.String("service", "comment_service")),
		metrics: metrics,
	}
}

func (s *CommentService) Add(ctx context.Context, kind models.DocumentKind, docID string, p lifecycle.Principal, text string) (*models.Comment, error) {
	if text == "" {
		return nil, &lifecycle.ValidationError{Field: "text", Message: "must not be empty"}
	}
	comment := &models.Comment{
		ID:           uuid.NewString(),
		DocumentKind: kind,
		DocumentID:   docID,
		AuthorID:     p.ID,
		Text:         text,
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	s.metrics.IncrementCounter("comments_added", map[string]string{"kind": string(kind)})
	return comment, nil
}

// List returns the thread in creation order. Soft-deleted rows are hidden
// unless includeDeleted is set (an audit view, admin-gated at the boundary).
func (s *CommentService) List(ctx context.Context, kind models.DocumentKind, docID string, includeDeleted bool) ([]models.Comment, error) {
	var comments []models.Comment
	q := s.db.WithContext(ctx).
		Where("document_kind = ? AND document_id = ?", kind, docID).
		Order("created_at ASC")
	if !includeDeleted {
		q = q.Where("deleted = ?", false)
	}
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Edit replaces a comment's text. Author only, and never on a deleted row.
func (s *CommentService) Edit(ctx context.Context, commentID string, p lifecycle.Principal, text string) (*models.Comment, error) {
	if text == "" {
		return nil, &lifecycle.ValidationError{Field: "text", Message: "must not be empty"}
	}
	comment, err := s.get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != p.ID {
		return nil, lifecycle.ErrCreatorMismatch
	}
	if comment.Deleted {
		return nil, lifecycle.ErrNotFound
	}
	if err := s.db.WithContext(ctx).Model(comment).
		Updates(map[string]any{"text": text, "edited": true}).Error; err != nil {
		return nil, fmt.Errorf("edit comment: %w", err)
	}
	comment.Text = text
	comment.Edited = true
	return comment, nil
}

// Delete soft-deletes a comment: the row is retained for audit and hidden
// from default reads. The author or an admin may delete.
func (s *CommentService) Delete(ctx context.Context, commentID string, p lifecycle.Principal) error {
	comment, err := s.get(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != p.ID && !p.Role.AtLeast(models.RoleAdmin) {
		return lifecycle.ErrCreatorMismatch
	}
	if err := s.db.WithContext(ctx).Model(comment).
		UpdateColumn("deleted", true).Error; err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	s.logger.Info("comment soft-deleted",
		zap.String("comment_id", commentID), zap.Uint("actor", p.ID))
	return nil
}

func (s *CommentService) get(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).Take(&comment, "id = ?", commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, lifecycle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
