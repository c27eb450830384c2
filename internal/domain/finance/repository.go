package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	PayerName string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

// ReceivedPaymentRepository defines the persistence interface for received payments
type ReceivedPaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReceivedPayment, error)
	FindByNumber(ctx context.Context, paymentNumber string) (*ReceivedPayment, error)
	FindAll(ctx context.Context, filter PaymentFilter) ([]*ReceivedPayment, int64, error)
	Save(ctx context.Context, payment *ReceivedPayment) error
	Delete(ctx context.Context, id uuid.UUID) error
	GeneratePaymentNumber(ctx context.Context) (string, error)
}
