package pettycash

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitecost/backend/internal/domain/shared"
)

// TransactionType represents the direction of a petty cash transaction
type TransactionType string

const (
	// TransactionTypeCredit represents money allocated to an employee (balance increase)
	TransactionTypeCredit TransactionType = "CREDIT"
	// TransactionTypeDebit represents money spent by an employee (balance decrease)
	TransactionTypeDebit TransactionType = "DEBIT"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// ReferenceType tags the provenance of a petty cash transaction
type ReferenceType string

const (
	// ReferenceTypeInitial represents the opening allocation of an account
	ReferenceTypeInitial ReferenceType = "INITIAL"
	// ReferenceTypeManual represents a manually entered credit or debit
	ReferenceTypeManual ReferenceType = "MANUAL"
	// ReferenceTypeExpense represents an automatic debit created from an expense
	ReferenceTypeExpense ReferenceType = "EXPENSE"
	// ReferenceTypeAdjustment represents a balance correction
	ReferenceTypeAdjustment ReferenceType = "ADJUSTMENT"
)

// String returns the string representation of ReferenceType
func (r ReferenceType) String() string {
	return string(r)
}

// IsValid returns true if the reference type is valid
func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferenceTypeInitial, ReferenceTypeManual, ReferenceTypeExpense, ReferenceTypeAdjustment:
		return true
	}
	return false
}

// Transaction represents one entry in an employee's petty cash ledger.
// Amount is always stored positive; direction is carried by Type, never by
// sign. BalanceAfter is the running balance immediately after this entry in
// chronological order and may go negative - an overspent account is a valid
// business state, not an error.
type Transaction struct {
	shared.BaseEntity
	EmployeeID      uuid.UUID
	Type            TransactionType
	Amount          decimal.Decimal
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	Description     string
	ReferenceType   ReferenceType
	ReferenceID     *string
	TransactionDate time.Time
}

// NewTransaction creates a ledger transaction, computing BalanceAfter from
// the supplied balanceBefore and the signed amount.
func NewTransaction(
	employeeID uuid.UUID,
	txType TransactionType,
	amount decimal.Decimal,
	balanceBefore decimal.Decimal,
	description string,
	refType ReferenceType,
) (*Transaction, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid petty cash transaction type")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !refType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE_TYPE", "Invalid reference type")
	}

	tx := &Transaction{
		BaseEntity:      shared.NewBaseEntity(),
		EmployeeID:      employeeID,
		Type:            txType,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    applySigned(balanceBefore, txType, amount),
		Description:     description,
		ReferenceType:   refType,
		TransactionDate: time.Now(),
	}

	return tx, nil
}

// NewCreditTransaction creates a credit entry on top of balanceBefore
func NewCreditTransaction(
	employeeID uuid.UUID,
	amount, balanceBefore decimal.Decimal,
	description string,
	refType ReferenceType,
) (*Transaction, error) {
	return NewTransaction(employeeID, TransactionTypeCredit, amount, balanceBefore, description, refType)
}

// NewDebitTransaction creates a debit entry on top of balanceBefore.
// The resulting balance may be negative.
func NewDebitTransaction(
	employeeID uuid.UUID,
	amount, balanceBefore decimal.Decimal,
	description string,
	refType ReferenceType,
) (*Transaction, error) {
	return NewTransaction(employeeID, TransactionTypeDebit, amount, balanceBefore, description, refType)
}

// WithReferenceID sets the back-reference to the originating record
// (the expense ID for EXPENSE rows). Lookup only, not ownership.
func (t *Transaction) WithReferenceID(referenceID string) *Transaction {
	t.ReferenceID = &referenceID
	return t
}

// WithTransactionDate overrides the transaction date
func (t *Transaction) WithTransactionDate(date time.Time) *Transaction {
	t.TransactionDate = date
	return t
}

// SignedAmount returns the amount with sign based on transaction type:
// positive for credits, negative for debits
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsExpenseDebit returns true if this entry was created from an expense
func (t *Transaction) IsExpenseDebit() bool {
	return t.Type == TransactionTypeDebit && t.ReferenceType == ReferenceTypeExpense
}

// Before reports whether t is chronologically earlier than other in the
// ledger's total order: TransactionDate, then CreatedAt, then ID.
func (t *Transaction) Before(other *Transaction) bool {
	if !t.TransactionDate.Equal(other.TransactionDate) {
		return t.TransactionDate.Before(other.TransactionDate)
	}
	if !t.CreatedAt.Equal(other.CreatedAt) {
		return t.CreatedAt.Before(other.CreatedAt)
	}
	return t.ID.String() < other.ID.String()
}

func applySigned(balance decimal.Decimal, txType TransactionType, amount decimal.Decimal) decimal.Decimal {
	if txType == TransactionTypeDebit {
		return balance.Sub(amount)
	}
	return balance.Add(amount)
}
