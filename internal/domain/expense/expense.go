package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitecost/backend/internal/domain/shared"
	"github.com/sitecost/backend/internal/domain/shared/valueobject"
)

// Category represents the category of a construction expense
type Category string

const (
	CategoryMaterials    Category = "MATERIALS"
	CategoryLabor        Category = "LABOR"
	CategoryEquipment    Category = "EQUIPMENT_RENTAL"
	CategoryTransport    Category = "TRANSPORT"
	CategoryFuel         Category = "FUEL"
	CategorySiteServices Category = "SITE_SERVICES"
	CategoryFees         Category = "FEES"
	CategoryOther        Category = "OTHER"
)

// IsValid checks if the category is a valid Category
func (c Category) IsValid() bool {
	switch c {
	case CategoryMaterials, CategoryLabor, CategoryEquipment, CategoryTransport,
		CategoryFuel, CategorySiteServices, CategoryFees, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// Categories returns all expense categories in display order
func Categories() []Category {
	return []Category{
		CategoryMaterials, CategoryLabor, CategoryEquipment, CategoryTransport,
		CategoryFuel, CategorySiteServices, CategoryFees, CategoryOther,
	}
}

// Expense represents a company expense aggregate root. Amount is the full
// monetary total charged; when IsVAT is set, VATAmount is the additive tax
// component already contained in Amount. When the expense is attributed to
// an employee, the full Amount (VAT included) is debited from that
// employee's petty cash account.
type Expense struct {
	shared.BaseAggregateRoot
	ExpenseNumber string
	Category      Category
	Description   string
	Amount        decimal.Decimal
	IsVAT         bool
	VATAmount     decimal.Decimal
	Currency      valueobject.Currency
	SupplierID    *uuid.UUID
	EmployeeID    *uuid.UUID
	ExpenseDate   time.Time
	Remark        string
}

// NewExpense creates a new expense. baseAmount is the VAT-exclusive figure
// entered by the user; when withVAT is set, additive VAT at the given rate
// is computed on top of it. employeeID, when non-nil, attributes the full
// amount to that employee's petty cash account; the created event carries
// the attribution so the ledger bridge sees it.
func NewExpense(
	expenseNumber string,
	category Category,
	description string,
	baseAmount decimal.Decimal,
	withVAT bool,
	vatRate decimal.Decimal,
	currency valueobject.Currency,
	supplierID, employeeID *uuid.UUID,
	expenseDate time.Time,
) (*Expense, error) {
	if expenseNumber == "" {
		return nil, shared.NewDomainError("INVALID_EXPENSE_NUMBER", "Expense number cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if baseAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if employeeID != nil && *employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}

	amount := baseAmount
	vatAmount := decimal.Zero
	if withVAT {
		breakdown, err := valueobject.AddVAT(baseAmount, vatRate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
		}
		vatAmount = breakdown.VAT
		amount = breakdown.Total
	}

	e := &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExpenseNumber:     expenseNumber,
		Category:          category,
		Description:       description,
		Amount:            amount,
		IsVAT:             withVAT,
		VATAmount:         vatAmount,
		Currency:          currency,
		SupplierID:        supplierID,
		EmployeeID:        employeeID,
		ExpenseDate:       expenseDate,
	}

	e.AddDomainEvent(NewExpenseCreatedEvent(e))

	return e, nil
}

// Update replaces the mutable fields of the expense. The previous employee
// attribution and amount are captured in the updated event so the petty cash
// ledger can be reconciled.
func (e *Expense) Update(
	category Category,
	description string,
	baseAmount decimal.Decimal,
	withVAT bool,
	vatRate decimal.Decimal,
	supplierID, employeeID *uuid.UUID,
	expenseDate time.Time,
) error {
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if baseAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}

	previousAmount := e.Amount
	previousEmployee := e.EmployeeID

	amount := baseAmount
	vatAmount := decimal.Zero
	if withVAT {
		breakdown, err := valueobject.AddVAT(baseAmount, vatRate)
		if err != nil {
			return shared.NewDomainError("INVALID_AMOUNT", err.Error())
		}
		vatAmount = breakdown.VAT
		amount = breakdown.Total
	}

	e.Category = category
	e.Description = description
	e.Amount = amount
	e.IsVAT = withVAT
	e.VATAmount = vatAmount
	e.SupplierID = supplierID
	e.EmployeeID = employeeID
	e.ExpenseDate = expenseDate
	e.UpdatedAt = time.Now()

	e.AddDomainEvent(NewExpenseUpdatedEvent(e, previousAmount, previousEmployee))

	return nil
}

// MarkDeleted raises the deleted event; the repository performs the actual
// removal
func (e *Expense) MarkDeleted() {
	e.AddDomainEvent(NewExpenseDeletedEvent(e))
}

// SetRemark sets the remark
func (e *Expense) SetRemark(remark string) {
	e.Remark = remark
	e.UpdatedAt = time.Now()
}

// HasEmployee returns true if the expense is attributed to an employee
func (e *Expense) HasEmployee() bool {
	return e.EmployeeID != nil && *e.EmployeeID != uuid.Nil
}

// BaseAmount returns the VAT-exclusive component of Amount
func (e *Expense) BaseAmount() decimal.Decimal {
	return e.Amount.Sub(e.VATAmount)
}
