package services

import (
	"context"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentRequestService struct {
	kindService
	db     *gorm.DB
	logger *zap.Logger
}

type PaymentRequestInput struct {
	Purpose     string  `json:"purpose" binding:"required"`
	Payee       string  `json:"payee" binding:"required"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	BankDetails string  `json:"bank_details"`
}

func NewPaymentRequestService(db *gorm.DB, logger *zap.Logger, docs *DocumentService) *PaymentRequestService {
	return &PaymentRequestService{
		kindService: newKindService(docs, models.KindPaymentRequest, func() Record { return &models.PaymentRequest{} }),
		db:          db,
		logger:      logger.With(zap.String("service", "payment_request_service")),
	}
}

func (s *PaymentRequestService) Create(ctx context.Context, p lifecycle.Principal, in PaymentRequestInput) (*models.PaymentRequest, error) {
	req := &models.PaymentRequest{
		Purpose:     in.Purpose,
		Payee:       in.Payee,
		Amount:      in.Amount,
		Currency:    in.Currency,
		BankDetails: in.BankDetails,
	}
	if err := s.docs.Create(ctx, req, p); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *PaymentRequestService) Update(ctx context.Context, id string, p lifecycle.Principal, in PaymentRequestInput) (*models.PaymentRequest, error) {
	rec, err := s.Load(ctx, id, p)
	if err != nil {
		return nil, err
	}
	req := rec.(*models.PaymentRequest)
	updates := map[string]any{
		"purpose":      in.Purpose,
		"payee":        in.Payee,
		"amount":       in.Amount,
		"currency":     in.Currency,
		"bank_details": in.BankDetails,
	}
	if err := s.docs.UpdateDraft(ctx, req, p, s.ownOpts(req), updates); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *PaymentRequestService) List(ctx context.Context, p lifecycle.Principal, status models.DocumentStatus) ([]models.PaymentRequest, error) {
	var reqs []models.PaymentRequest
	q := s.db.WithContext(ctx).Scopes(VisibleTo(p)).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}
