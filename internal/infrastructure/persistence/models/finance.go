package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitecost/backend/internal/domain/finance"
	"github.com/sitecost/backend/internal/domain/shared"
	"github.com/sitecost/backend/internal/domain/shared/valueobject"
)

// ReceivedPaymentModel is the persistence model for the ReceivedPayment aggregate root.
type ReceivedPaymentModel struct {
	AggregateModel
	PaymentNumber    string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	PayerName        string                `gorm:"type:varchar(200);not null;index"`
	Amount           decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	IsVAT            bool                  `gorm:"not null;default:false"`
	VATAmount        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Currency         valueobject.Currency  `gorm:"type:varchar(3);not null"`
	PaymentMethod    finance.PaymentMethod `gorm:"type:varchar(20);not null"`
	PaymentReference string                `gorm:"type:varchar(100)"`
	PaymentDate      time.Time             `gorm:"not null;index"`
	Remark           string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ReceivedPaymentModel) TableName() string {
	return "received_payments"
}

// ToDomain converts the persistence model to a domain ReceivedPayment entity.
func (m *ReceivedPaymentModel) ToDomain() *finance.ReceivedPayment {
	return &finance.ReceivedPayment{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		PaymentNumber:    m.PaymentNumber,
		PayerName:        m.PayerName,
		Amount:           m.Amount,
		IsVAT:            m.IsVAT,
		VATAmount:        m.VATAmount,
		Currency:         m.Currency,
		PaymentMethod:    m.PaymentMethod,
		PaymentReference: m.PaymentReference,
		PaymentDate:      m.PaymentDate,
		Remark:           m.Remark,
	}
}

// FromDomain populates the persistence model from a domain ReceivedPayment entity.
func (m *ReceivedPaymentModel) FromDomain(p *finance.ReceivedPayment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.PaymentNumber = p.PaymentNumber
	m.PayerName = p.PayerName
	m.Amount = p.Amount
	m.IsVAT = p.IsVAT
	m.VATAmount = p.VATAmount
	m.Currency = p.Currency
	m.PaymentMethod = p.PaymentMethod
	m.PaymentReference = p.PaymentReference
	m.PaymentDate = p.PaymentDate
	m.Remark = p.Remark
}

// ReceivedPaymentModelFromDomain creates a new persistence model from a domain ReceivedPayment.
func ReceivedPaymentModelFromDomain(p *finance.ReceivedPayment) *ReceivedPaymentModel {
	m := &ReceivedPaymentModel{}
	m.FromDomain(p)
	return m
}
