package services

import (
	"context"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ConceptNoteService struct {
	kindService
	db     *gorm.DB
	logger *zap.Logger
}

type ConceptNoteInput struct {
	Activity    string `json:"activity" binding:"required"`
	Background  string `json:"background"`
	Objectives  string `json:"objectives"`
	Beneficiary string `json:"beneficiary"`
	Location    string `json:"location"`
	PreparedBy  *uint  `json:"prepared_by"`
}

func NewConceptNoteService(db *gorm.DB, logger *zap.Logger, docs *DocumentService) *ConceptNoteService {
	s := &ConceptNoteService{
		kindService: newKindService(docs, models.KindConceptNote, func() Record { return &models.ConceptNote{} }),
		db:          db,
		logger:      logger.With(zap.String("service", "concept_note_service")),
	}
	// Concept notes record a preparer; surface it to the ownership verifier
	// so callers that demand the preparer check have the field available.
	s.ownOpts = func(rec Record) lifecycle.VerifyOptions {
		note, ok := rec.(*models.ConceptNote)
		if !ok {
			return lifecycle.VerifyOptions{}
		}
		return lifecycle.VerifyOptions{PreparedBy: note.PreparedBy}
	}
	return s
}

func (s *ConceptNoteService) Create(ctx context.Context, p lifecycle.Principal, in ConceptNoteInput) (*models.ConceptNote, error) {
	note := &models.ConceptNote{
		PreparedBy:  in.PreparedBy,
		Activity:    in.Activity,
		Background:  in.Background,
		Objectives:  in.Objectives,
		Beneficiary: in.Beneficiary,
		Location:    in.Location,
	}
	if err := s.docs.Create(ctx, note, p); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *ConceptNoteService) Update(ctx context.Context, id string, p lifecycle.Principal, in ConceptNoteInput) (*models.ConceptNote, error) {
	rec, err := s.Load(ctx, id, p)
	if err != nil {
		return nil, err
	}
	note := rec.(*models.ConceptNote)
	updates := map[string]any{
		"activity":    in.Activity,
		"background":  in.Background,
		"objectives":  in.Objectives,
		"beneficiary": in.Beneficiary,
		"location":    in.Location,
	}
	if in.PreparedBy != nil {
		updates["prepared_by"] = *in.PreparedBy
	}
	if err := s.docs.UpdateDraft(ctx, note, p, s.ownOpts(note), updates); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *ConceptNoteService) List(ctx context.Context, p lifecycle.Principal, status models.DocumentStatus) ([]models.ConceptNote, error) {
	var notes []models.ConceptNote
	q := s.db.WithContext(ctx).Scopes(VisibleTo(p)).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}
