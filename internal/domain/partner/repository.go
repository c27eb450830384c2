package partner

import (
	"context"

	"github.com/google/uuid"
)

// EmployeeFilter defines filtering options for employee queries
type EmployeeFilter struct {
	Status   *EmployeeStatus
	Search   string
	Page     int
	PageSize int
}

// EmployeeRepository defines the persistence interface for employees
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindByCode(ctx context.Context, code string) (*Employee, error)
	FindAll(ctx context.Context, filter EmployeeFilter) ([]*Employee, int64, error)
	Save(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplierFilter defines filtering options for supplier queries
type SupplierFilter struct {
	Status   *SupplierStatus
	Search   string
	Page     int
	PageSize int
}

// SupplierRepository defines the persistence interface for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByCode(ctx context.Context, code string) (*Supplier, error)
	FindAll(ctx context.Context, filter SupplierFilter) ([]*Supplier, int64, error)
	Save(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}
