package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitecost/backend/internal/domain/pettycash"
	"github.com/sitecost/backend/internal/domain/shared"
)

// PettyCashTransactionModel is the persistence model for petty cash ledger entries.
// BalanceBefore/BalanceAfter carry the running balance and are rewritten in
// place when a deletion or backdated insert forces a suffix replay.
type PettyCashTransactionModel struct {
	BaseModel
	EmployeeID      uuid.UUID                 `gorm:"type:uuid;not null;index:idx_pcash_employee_order,priority:1"`
	Type            pettycash.TransactionType `gorm:"type:varchar(10);not null;index"`
	Amount          decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	BalanceBefore   decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	Description     string                    `gorm:"type:varchar(500)"`
	ReferenceType   pettycash.ReferenceType   `gorm:"type:varchar(20);not null;index:idx_pcash_reference,priority:1"`
	ReferenceID     *string                   `gorm:"type:varchar(100);index:idx_pcash_reference,priority:2"`
	TransactionDate time.Time                 `gorm:"not null;index:idx_pcash_employee_order,priority:2"`
}

// TableName returns the table name for GORM
func (PettyCashTransactionModel) TableName() string {
	return "petty_cash_transactions"
}

// ToDomain converts the persistence model to a domain Transaction.
func (m *PettyCashTransactionModel) ToDomain() *pettycash.Transaction {
	return &pettycash.Transaction{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		EmployeeID:      m.EmployeeID,
		Type:            m.Type,
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		Description:     m.Description,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		TransactionDate: m.TransactionDate,
	}
}

// FromDomain populates the persistence model from a domain Transaction.
func (m *PettyCashTransactionModel) FromDomain(t *pettycash.Transaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.EmployeeID = t.EmployeeID
	m.Type = t.Type
	m.Amount = t.Amount
	m.BalanceBefore = t.BalanceBefore
	m.BalanceAfter = t.BalanceAfter
	m.Description = t.Description
	m.ReferenceType = t.ReferenceType
	m.ReferenceID = t.ReferenceID
	m.TransactionDate = t.TransactionDate
}

// PettyCashTransactionModelFromDomain creates a new persistence model from a domain Transaction.
func PettyCashTransactionModelFromDomain(t *pettycash.Transaction) *PettyCashTransactionModel {
	m := &PettyCashTransactionModel{}
	m.FromDomain(t)
	return m
}
