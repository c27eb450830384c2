package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitecost/backend/internal/domain/shared"
	"github.com/sitecost/backend/internal/domain/shared/valueobject"
)

// PaymentMethod represents the method of payment
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// ReceivedPayment records money received from a client. The amount entered
// is the base amount; when the payment is subject to VAT the tax is added on
// top and Amount stores the gross total.
type ReceivedPayment struct {
	shared.BaseAggregateRoot
	PaymentNumber    string               `json:"payment_number"`
	PayerName        string               `json:"payer_name"`
	Amount           decimal.Decimal      `json:"amount"` // Gross total, VAT included when applicable
	IsVAT            bool                 `json:"is_vat"`
	VATAmount        decimal.Decimal      `json:"vat_amount"`
	Currency         valueobject.Currency `json:"currency"`
	PaymentMethod    PaymentMethod        `json:"payment_method"`
	PaymentReference string               `json:"payment_reference"`
	PaymentDate      time.Time            `json:"payment_date"`
	Remark           string               `json:"remark"`
}

// NewReceivedPayment creates a new received payment. baseAmount is the amount
// before tax; when withVAT is true the VAT is computed at vatRate and added.
func NewReceivedPayment(
	paymentNumber string,
	payerName string,
	baseAmount decimal.Decimal,
	withVAT bool,
	vatRate decimal.Decimal,
	currency valueobject.Currency,
	paymentMethod PaymentMethod,
	paymentDate time.Time,
) (*ReceivedPayment, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if len(paymentNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot exceed 50 characters")
	}
	if payerName == "" {
		return nil, shared.NewDomainError("INVALID_PAYER", "Payer name cannot be empty")
	}
	if baseAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not valid")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_DATE", "Payment date is required")
	}

	total := baseAmount
	vatAmount := decimal.Zero
	if withVAT {
		breakdown, err := valueobject.AddVAT(baseAmount, vatRate)
		if err != nil {
			return nil, err
		}
		total = breakdown.Total
		vatAmount = breakdown.VAT
	}

	rp := &ReceivedPayment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentNumber:     paymentNumber,
		PayerName:         payerName,
		Amount:            total,
		IsVAT:             withVAT,
		VATAmount:         vatAmount,
		Currency:          currency,
		PaymentMethod:     paymentMethod,
		PaymentDate:       paymentDate,
	}

	rp.AddDomainEvent(NewPaymentReceivedEvent(rp))

	return rp, nil
}

// BaseAmount returns the amount before VAT
func (rp *ReceivedPayment) BaseAmount() decimal.Decimal {
	return rp.Amount.Sub(rp.VATAmount)
}

// SetPaymentReference sets the payment reference (bank txn, check number)
func (rp *ReceivedPayment) SetPaymentReference(reference string) error {
	if len(reference) > 100 {
		return shared.NewDomainError("INVALID_REFERENCE", "Payment reference cannot exceed 100 characters")
	}
	rp.PaymentReference = reference
	rp.UpdatedAt = time.Now()
	return nil
}

// SetRemark sets the remark
func (rp *ReceivedPayment) SetRemark(remark string) {
	rp.Remark = remark
	rp.UpdatedAt = time.Now()
}

// GetAmountMoney returns the gross amount as Money
func (rp *ReceivedPayment) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(rp.Amount, rp.Currency)
	return m
}
