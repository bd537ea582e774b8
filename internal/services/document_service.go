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

// Record is what the engine needs from a document of any kind: the shared
// core fields and the kind discriminator. The concrete structs in db/models
// satisfy it; their payload columns never cross this boundary.
type Record interface {
	Core() *models.DocumentCore
	Kind() models.DocumentKind
}

// DocumentService runs the lifecycle over the durable store. It is stateless
// between requests; all concurrency control happens at the storage layer
// through conditional writes.
type DocumentService struct {
	db      *gorm.DB
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewDocumentService(db *gorm.DB, logger *zap.Logger, metrics *metrics.Collector) *DocumentService {
	return &DocumentService{
		db:      db,
		logger:  logger.With(zap.String("service", "document_service")),
		metrics: metrics,
	}
}

// errStale marks a conditional write that matched zero rows: the status we
// validated against is no longer the committed one.
var errStale = errors.New("document status changed since read")

var actionCounters = map[lifecycle.Action]string{
	lifecycle.ActionSubmit:  "documents_submitted",
	lifecycle.ActionReview:  "documents_reviewed",
	lifecycle.ActionApprove: "documents_approved",
	lifecycle.ActionReject:  "documents_rejected",
}

// VisibleTo is the role-scoped read predicate, one rule per role. STAFF see
// what they created; reviewers see everything that has left draft plus their
// own drafts; admins see all.
func VisibleTo(p lifecycle.Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case p.Role.AtLeast(models.RoleAdmin):
			return db
		case p.Role == models.RoleReviewer:
			return db.Where("status <> ? OR created_by = ?", models.StatusDraft, p.ID)
		default:
			return db.Where("created_by = ?", p.ID)
		}
	}
}

// Create persists a fresh draft owned by the principal. The reference code
// starts as a per-draft placeholder so the unique index is satisfied before
// the real code exists.
func (s *DocumentService) Create(ctx context.Context, rec Record, p lifecycle.Principal) error {
	core := rec.Core()
	core.ID = uuid.NewString()
	core.ReferenceCode = DraftPlaceholder(rec.Kind())
	core.Status = models.StatusDraft
	core.CreatedBy = p.ID

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("create %s: %w", rec.Kind(), err)
	}
	s.metrics.IncrementCounter("documents_created", map[string]string{"kind": string(rec.Kind())})
	s.logger.Info("document created",
		zap.String("kind", string(rec.Kind())),
		zap.String("doc_id", core.ID),
		zap.Uint("created_by", p.ID))
	return nil
}

// Get loads one document through the principal's visibility scope. A hidden
// document is indistinguishable from a missing one.
func (s *DocumentService) Get(ctx context.Context, rec Record, id string, p lifecycle.Principal) error {
	err := s.db.WithContext(ctx).Scopes(VisibleTo(p)).Take(rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lifecycle.ErrNotFound
	}
	return err
}

func (s *DocumentService) reload(ctx context.Context, rec Record) error {
	err := s.db.WithContext(ctx).Take(rec, "id = ?", rec.Core().ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lifecycle.ErrNotFound
	}
	return err
}

// Transition validates and applies one action as a single atomic write:
// status, the gate-specific actor field, and (on submit) the freshly
// allocated reference code commit together or not at all.
//
// A duplicate reference code aborts the transaction and the whole submit is
// retried with the next serial; any other lost race is reported as either
// InvalidTransition (the committed status forbids the action now) or
// ErrConflict (it still allows it, the caller may retry).
func (s *DocumentService) Transition(ctx context.Context, rec Record, action lifecycle.Action, p lifecycle.Principal, own lifecycle.VerifyOptions) error {
	machine := lifecycle.For(rec.Kind())
	const maxAttempts = 3

	for attempt := 1; ; attempt++ {
		outcome, err := machine.Decide(rec.Core(), action, p, own)
		if err != nil {
			return err
		}

		err = s.apply(ctx, rec, outcome, p)
		if err == nil {
			if name, ok := actionCounters[action]; ok {
				s.metrics.IncrementCounter(name, map[string]string{"kind": string(rec.Kind())})
			}
			s.logger.Info("document transitioned",
				zap.String("kind", string(rec.Kind())),
				zap.String("doc_id", rec.Core().ID),
				zap.String("from", string(outcome.From)),
				zap.String("to", string(outcome.To)),
				zap.Uint("actor", p.ID))
			return nil
		}

		if errors.Is(err, gorm.ErrDuplicatedKey) && outcome.AllocateCode {
			if attempt < maxAttempts {
				s.metrics.IncrementCounter("reference_conflicts", nil)
				s.logger.Warn("reference code collision, retrying",
					zap.String("doc_id", rec.Core().ID), zap.Int("attempt", attempt))
				continue
			}
			return lifecycle.ErrConflict
		}

		if errors.Is(err, errStale) {
			if rerr := s.reload(ctx, rec); rerr != nil {
				return rerr
			}
			if _, derr := machine.Decide(rec.Core(), action, p, own); derr != nil {
				return derr
			}
			return lifecycle.ErrConflict
		}
		return fmt.Errorf("apply %s on %s: %w", action, rec.Kind(), err)
	}
}

func (s *DocumentService) apply(ctx context.Context, rec Record, outcome lifecycle.Outcome, p lifecycle.Principal) error {
	core := rec.Core()
	var code string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": outcome.To}
		if outcome.SetReviewedBy {
			updates["reviewed_by"] = p.ID
		}
		if outcome.SetApprovedBy {
			updates["approved_by"] = p.ID
		}
		if outcome.AllocateCode && IsPlaceholder(core.ReferenceCode) {
			allocated, err := nextReferenceCode(tx, rec.Kind())
			if err != nil {
				return err
			}
			code = allocated
			updates["reference_code"] = code
		}

		res := tx.Model(rec).
			Where("id = ? AND status = ?", core.ID, outcome.From).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errStale
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Reflect the committed write on the in-memory record.
	core.Status = outcome.To
	if outcome.SetReviewedBy {
		actor := p.ID
		core.ReviewedBy = &actor
	}
	if outcome.SetApprovedBy {
		actor := p.ID
		core.ApprovedBy = &actor
	}
	if code != "" {
		core.ReferenceCode = code
	}
	return nil
}

// UpdateDraft writes kind-specific payload columns, gated exactly like the
// draft edit edge: creator only, draft only, no code assigned.
func (s *DocumentService) UpdateDraft(ctx context.Context, rec Record, p lifecycle.Principal, own lifecycle.VerifyOptions, updates map[string]any) error {
	machine := lifecycle.For(rec.Kind())
	outcome, err := machine.Decide(rec.Core(), lifecycle.ActionEdit, p, own)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Model(rec).
		Where("id = ? AND status = ?", rec.Core().ID, outcome.From).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update %s draft: %w", rec.Kind(), res.Error)
	}
	if res.RowsAffected == 0 {
		if rerr := s.reload(ctx, rec); rerr != nil {
			return rerr
		}
		if _, derr := machine.Decide(rec.Core(), lifecycle.ActionEdit, p, own); derr != nil {
			return derr
		}
		return lifecycle.ErrConflict
	}
	return s.reload(ctx, rec)
}

// DeleteDraft removes a draft and its file associations in one transaction.
// Associations go first so a crash mid-sequence can only leave prunable
// association rows, never an association pointing at a deleted document
// treated as authoritative.
func (s *DocumentService) DeleteDraft(ctx context.Context, rec Record, p lifecycle.Principal, own lifecycle.VerifyOptions) error {
	machine := lifecycle.For(rec.Kind())
	if _, err := machine.Decide(rec.Core(), lifecycle.ActionEdit, p, own); err != nil {
		return err
	}
	core := rec.Core()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_kind = ? AND document_id = ?", rec.Kind(), core.ID).
			Delete(&models.FileAssociation{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND status = ?", core.ID, models.StatusDraft).Delete(rec)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errStale
		}
		return nil
	})
	if errors.Is(err, errStale) {
		return lifecycle.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("delete %s draft: %w", rec.Kind(), err)
	}
	s.logger.Info("draft deleted",
		zap.String("kind", string(rec.Kind())), zap.String("doc_id", core.ID))
	return nil
}
