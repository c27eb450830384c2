package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitecost/backend/internal/domain/finance"
	"github.com/sitecost/backend/internal/domain/shared/valueobject"
)

// PaymentService provides application-level received payment operations
type PaymentService struct {
	paymentRepo finance.ReceivedPaymentRepository
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo finance.ReceivedPaymentRepository) *PaymentService {
	return &PaymentService{paymentRepo: paymentRepo}
}

// PaymentResponse represents a received payment in API responses
type PaymentResponse struct {
	ID               uuid.UUID       `json:"id"`
	PaymentNumber    string          `json:"payment_number"`
	PayerName        string          `json:"payer_name"`
	Amount           decimal.Decimal `json:"amount"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	IsVAT            bool            `json:"is_vat"`
	VATAmount        decimal.Decimal `json:"vat_amount"`
	Currency         string          `json:"currency"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	PaymentDate      time.Time       `json:"payment_date"`
	Remark           string          `json:"remark,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// CreatePaymentRequest represents a request to record a received payment.
// Amount is the base figure; with_vat adds tax on top of it.
type CreatePaymentRequest struct {
	PayerName        string          `json:"payer_name" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	WithVAT          bool            `json:"with_vat"`
	Currency         string          `json:"currency"`
	PaymentMethod    string          `json:"payment_method" binding:"required,oneof=CASH BANK_TRANSFER CHECK OTHER"`
	PaymentReference string          `json:"payment_reference"`
	PaymentDate      time.Time       `json:"payment_date" binding:"required"`
	Remark           string          `json:"remark"`
}

// PaymentListFilter defines filtering options for payment list queries
type PaymentListFilter struct {
	PayerName string     `form:"payer_name"`
	FromDate  *time.Time `form:"from_date"`
	ToDate    *time.Time `form:"to_date"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// Create records a new received payment
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	paymentNumber, err := s.paymentRepo.GeneratePaymentNumber(ctx)
	if err != nil {
		return nil, err
	}

	payment, err := finance.NewReceivedPayment(
		paymentNumber,
		req.PayerName,
		req.Amount,
		req.WithVAT,
		valueobject.DefaultVATRate,
		valueobject.Currency(req.Currency),
		finance.PaymentMethod(req.PaymentMethod),
		req.PaymentDate,
	)
	if err != nil {
		return nil, err
	}

	if req.PaymentReference != "" {
		if err := payment.SetPaymentReference(req.PaymentReference); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		payment.SetRemark(req.Remark)
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// GetByID gets a received payment by ID
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// Delete removes a received payment
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.paymentRepo.Delete(ctx, id)
}

// List lists received payments with filtering
func (s *PaymentService) List(ctx context.Context, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	payments, total, err := s.paymentRepo.FindAll(ctx, finance.PaymentFilter{
		PayerName: filter.PayerName,
		DateFrom:  filter.FromDate,
		DateTo:    filter.ToDate,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = *toPaymentResponse(p)
	}
	return responses, total, nil
}

func toPaymentResponse(p *finance.ReceivedPayment) *PaymentResponse {
	return &PaymentResponse{
		ID:               p.ID,
		PaymentNumber:    p.PaymentNumber,
		PayerName:        p.PayerName,
		Amount:           p.Amount,
		BaseAmount:       p.BaseAmount(),
		IsVAT:            p.IsVAT,
		VATAmount:        p.VATAmount,
		Currency:         string(p.Currency),
		PaymentMethod:    string(p.PaymentMethod),
		PaymentReference: p.PaymentReference,
		PaymentDate:      p.PaymentDate,
		Remark:           p.Remark,
		CreatedAt:        p.CreatedAt,
	}
}
