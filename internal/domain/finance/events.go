package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitecost/backend/internal/domain/shared"
)

const (
	EventTypePaymentReceived = "finance.payment.received"
)

// PaymentReceivedEvent is raised when a payment from a client is recorded
type PaymentReceivedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	PayerName     string          `json:"payer_name"`
	Amount        decimal.Decimal `json:"amount"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	PaymentID     uuid.UUID       `json:"payment_id"`
}

// NewPaymentReceivedEvent creates a new PaymentReceivedEvent
func NewPaymentReceivedEvent(rp *ReceivedPayment) *PaymentReceivedEvent {
	return &PaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReceived, "ReceivedPayment", rp.ID),
		PaymentNumber:   rp.PaymentNumber,
		PayerName:       rp.PayerName,
		Amount:          rp.Amount,
		VATAmount:       rp.VATAmount,
		PaymentID:       rp.ID,
	}
}
