package pettycash

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter contains filter options for listing petty cash transactions
type Filter struct {
	Type     *TransactionType
	RefType  *ReferenceType
	Page     int
	PageSize int
}

// TransactionRepository defines the interface for petty cash transaction
// persistence. The repository stores and queries rows; running-balance
// bookkeeping (append computation, suffix replay after removal) is
// orchestrated by the application ledger service.
type TransactionRepository interface {
	// Create persists a new transaction
	Create(ctx context.Context, tx *Transaction) error

	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindByEmployee lists an employee's transactions newest-first
	FindByEmployee(ctx context.Context, employeeID uuid.UUID, filter Filter) ([]*Transaction, int64, error)

	// FindRecentByEmployee returns the most recent limit transactions, newest-first
	FindRecentByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]*Transaction, error)

	// FindSuffix returns the employee's transactions strictly after the
	// given one in chronological order, oldest-first. Used for replay.
	FindSuffix(ctx context.Context, after *Transaction) ([]*Transaction, error)

	// FindByReference finds the transaction carrying the given provenance
	// tag and back-reference, or shared.ErrNotFound
	FindByReference(ctx context.Context, refType ReferenceType, referenceID string) (*Transaction, error)

	// LastByEmployee returns the chronologically last transaction for an
	// employee, or shared.ErrNotFound for an empty ledger
	LastByEmployee(ctx context.Context, employeeID uuid.UUID) (*Transaction, error)

	// SumAmountByType sums Amount over an employee's transactions of one type
	SumAmountByType(ctx context.Context, employeeID uuid.UUID, txType TransactionType) (decimal.Decimal, error)

	// SumAmountByReferenceType sums Amount over an employee's transactions
	// with one reference type
	SumAmountByReferenceType(ctx context.Context, employeeID uuid.UUID, refType ReferenceType) (decimal.Decimal, error)

	// UpdateBalances persists recomputed BalanceBefore/BalanceAfter values
	UpdateBalances(ctx context.Context, txs []*Transaction) error

	// Delete removes a transaction; shared.ErrNotFound if absent
	Delete(ctx context.Context, id uuid.UUID) error

	// ListEmployeeIDs returns the IDs of all employees with at least one
	// transaction
	ListEmployeeIDs(ctx context.Context) ([]uuid.UUID, error)
}
