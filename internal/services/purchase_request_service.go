package services

import (
	"context"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PurchaseRequestService struct {
	kindService
	db     *gorm.DB
	logger *zap.Logger
}

type PurchaseRequestInput struct {
	Purpose     string  `json:"purpose" binding:"required"`
	Items       string  `json:"items"`
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
	DeliveryTo  string  `json:"delivery_to"`
}

func NewPurchaseRequestService(db *gorm.DB, logger *zap.Logger, docs *DocumentService) *PurchaseRequestService {
	return &PurchaseRequestService{
		kindService: newKindService(docs, models.KindPurchaseRequest, func() Record { return &models.PurchaseRequest{} }),
		db:          db,
		logger:      logger.With(zap.String("service", "purchase_request_service")),
	}
}

func (s *PurchaseRequestService) Create(ctx context.Context, p lifecycle.Principal, in PurchaseRequestInput) (*models.PurchaseRequest, error) {
	req := &models.PurchaseRequest{
		Purpose:     in.Purpose,
		Items:       in.Items,
		TotalAmount: in.TotalAmount,
		Currency:    in.Currency,
		DeliveryTo:  in.DeliveryTo,
	}
	if err := s.docs.Create(ctx, req, p); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *PurchaseRequestService) Update(ctx context.Context, id string, p lifecycle.Principal, in PurchaseRequestInput) (*models.PurchaseRequest, error) {
	rec, err := s.Load(ctx, id, p)
	if err != nil {
		return nil, err
	}
	req := rec.(*models.PurchaseRequest)
	updates := map[string]any{
		"purpose":      in.Purpose,
		"items":        in.Items,
		"total_amount": in.TotalAmount,
		"currency":     in.Currency,
		"delivery_to":  in.DeliveryTo,
	}
	if err := s.docs.UpdateDraft(ctx, req, p, s.ownOpts(req), updates); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *PurchaseRequestService) List(ctx context.Context, p lifecycle.Principal, status models.DocumentStatus) ([]models.PurchaseRequest, error) {
	var reqs []models.PurchaseRequest
	q := s.db.WithContext(ctx).Scopes(VisibleTo(p)).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}
