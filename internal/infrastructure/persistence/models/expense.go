package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitecost/backend/internal/domain/expense"
	"github.com/sitecost/backend/internal/domain/shared"
	"github.com/sitecost/backend/internal/domain/shared/valueobject"
)

// ExpenseModel is the persistence model for the Expense aggregate root.
type ExpenseModel struct {
	AggregateModel
	ExpenseNumber string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	Category      expense.Category     `gorm:"type:varchar(30);not null;index"`
	Description   string               `gorm:"type:varchar(500);not null"`
	Amount        decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	IsVAT         bool                 `gorm:"not null;default:false"`
	VATAmount     decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null"`
	SupplierID    *uuid.UUID           `gorm:"type:uuid;index"`
	EmployeeID    *uuid.UUID           `gorm:"type:uuid;index"`
	ExpenseDate   time.Time            `gorm:"not null;index"`
	Remark        string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense entity.
func (m *ExpenseModel) ToDomain() *expense.Expense {
	return &expense.Expense{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		ExpenseNumber: m.ExpenseNumber,
		Category:      m.Category,
		Description:   m.Description,
		Amount:        m.Amount,
		IsVAT:         m.IsVAT,
		VATAmount:     m.VATAmount,
		Currency:      m.Currency,
		SupplierID:    m.SupplierID,
		EmployeeID:    m.EmployeeID,
		ExpenseDate:   m.ExpenseDate,
		Remark:        m.Remark,
	}
}

// FromDomain populates the persistence model from a domain Expense entity.
func (m *ExpenseModel) FromDomain(e *expense.Expense) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.ExpenseNumber = e.ExpenseNumber
	m.Category = e.Category
	m.Description = e.Description
	m.Amount = e.Amount
	m.IsVAT = e.IsVAT
	m.VATAmount = e.VATAmount
	m.Currency = e.Currency
	m.SupplierID = e.SupplierID
	m.EmployeeID = e.EmployeeID
	m.ExpenseDate = e.ExpenseDate
	m.Remark = e.Remark
}

// ExpenseModelFromDomain creates a new persistence model from a domain Expense.
func ExpenseModelFromDomain(e *expense.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}
