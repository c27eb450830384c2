package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sitecost/backend/internal/domain/shared"
)

// Filter defines filtering options for expense list queries
type Filter struct {
	shared.Filter
	Category   *Category
	SupplierID *uuid.UUID
	EmployeeID *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
}

// Repository defines the interface for expense persistence
type Repository interface {
	// FindByID finds an expense by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)

	// FindByNumber finds an expense by its expense number
	FindByNumber(ctx context.Context, expenseNumber string) (*Expense, error)

	// FindAll lists expenses with filtering
	FindAll(ctx context.Context, filter Filter) ([]*Expense, int64, error)

	// Save creates or updates an expense
	Save(ctx context.Context, e *Expense) error

	// Delete removes an expense; shared.ErrNotFound if absent
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateExpenseNumber generates the next sequential expense number
	GenerateExpenseNumber(ctx context.Context) (string, error)
}
