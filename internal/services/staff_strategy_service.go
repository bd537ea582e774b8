package services

import (
	"context"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StaffStrategyService struct {
	kindService
	db     *gorm.DB
	logger *zap.Logger
}

type StaffStrategyInput struct {
	Title      string `json:"title" binding:"required"`
	Objectives string `json:"objectives"`
	KeyResults string `json:"key_results"`
	Quarter    string `json:"quarter"`
}

func NewStaffStrategyService(db *gorm.DB, logger *zap.Logger, docs *DocumentService) *StaffStrategyService {
	return &StaffStrategyService{
		kindService: newKindService(docs, models.KindStaffStrategy, func() Record { return &models.StaffStrategy{} }),
		db:          db,
		logger:      logger.With(zap.String("service", "staff_strategy_service")),
	}
}

func (s *StaffStrategyService) Create(ctx context.Context, p lifecycle.Principal, in StaffStrategyInput) (*models.StaffStrategy, error) {
	strategy := &models.StaffStrategy{
		Title:      in.Title,
		Objectives: in.Objectives,
		KeyResults: in.KeyResults,
		Quarter:    in.Quarter,
	}
	if err := s.docs.Create(ctx, strategy, p); err != nil {
		return nil, err
	}
	return strategy, nil
}

func (s *StaffStrategyService) Update(ctx context.Context, id string, p lifecycle.Principal, in StaffStrategyInput) (*models.StaffStrategy, error) {
	rec, err := s.Load(ctx, id, p)
	if err != nil {
		return nil, err
	}
	strategy := rec.(*models.StaffStrategy)
	updates := map[string]any{
		"title":       in.Title,
		"objectives":  in.Objectives,
		"key_results": in.KeyResults,
		"quarter":     in.Quarter,
	}
	if err := s.docs.UpdateDraft(ctx, strategy, p, s.ownOpts(strategy), updates); err != nil {
		return nil, err
	}
	return strategy, nil
}

func (s *StaffStrategyService) List(ctx context.Context, p lifecycle.Principal, status models.DocumentStatus) ([]models.StaffStrategy, error) {
	var strategies []models.StaffStrategy
	q := s.db.WithContext(ctx).Scopes(VisibleTo(p)).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&strategies).Error; err != nil {
		return nil, err
	}
	return strategies, nil
}
