package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitecost/backend/internal/domain/shared"
)

// Event type names for expense lifecycle events
const (
	EventTypeExpenseCreated = "ExpenseCreated"
	EventTypeExpenseUpdated = "ExpenseUpdated"
	EventTypeExpenseDeleted = "ExpenseDeleted"
)

// ExpenseCreatedEvent is raised when a new expense is created
type ExpenseCreatedEvent struct {
	shared.BaseDomainEvent
	ExpenseID     uuid.UUID       `json:"expense_id"`
	ExpenseNumber string          `json:"expense_number"`
	Category      Category        `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	IsVAT         bool            `json:"is_vat"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	EmployeeID    *uuid.UUID      `json:"employee_id,omitempty"`
	ExpenseDate   time.Time       `json:"expense_date"`
}

// EventType returns the event type name
func (e *ExpenseCreatedEvent) EventType() string {
	return EventTypeExpenseCreated
}

// NewExpenseCreatedEvent creates a new ExpenseCreatedEvent
func NewExpenseCreatedEvent(e *Expense) *ExpenseCreatedEvent {
	return &ExpenseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseCreated, "Expense", e.ID),
		ExpenseID:       e.ID,
		ExpenseNumber:   e.ExpenseNumber,
		Category:        e.Category,
		Description:     e.Description,
		Amount:          e.Amount,
		IsVAT:           e.IsVAT,
		VATAmount:       e.VATAmount,
		EmployeeID:      e.EmployeeID,
		ExpenseDate:     e.ExpenseDate,
	}
}

// ExpenseUpdatedEvent is raised when an expense's amount or attribution
// changes. PreviousAmount and PreviousEmployeeID describe the state the
// petty cash ledger last saw, so the bridge can reconcile.
type ExpenseUpdatedEvent struct {
	shared.BaseDomainEvent
	ExpenseID          uuid.UUID       `json:"expense_id"`
	ExpenseNumber      string          `json:"expense_number"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	EmployeeID         *uuid.UUID      `json:"employee_id,omitempty"`
	ExpenseDate        time.Time       `json:"expense_date"`
	PreviousAmount     decimal.Decimal `json:"previous_amount"`
	PreviousEmployeeID *uuid.UUID      `json:"previous_employee_id,omitempty"`
}

// EventType returns the event type name
func (e *ExpenseUpdatedEvent) EventType() string {
	return EventTypeExpenseUpdated
}

// NewExpenseUpdatedEvent creates a new ExpenseUpdatedEvent
func NewExpenseUpdatedEvent(e *Expense, previousAmount decimal.Decimal, previousEmployeeID *uuid.UUID) *ExpenseUpdatedEvent {
	return &ExpenseUpdatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeExpenseUpdated, "Expense", e.ID),
		ExpenseID:          e.ID,
		ExpenseNumber:      e.ExpenseNumber,
		Description:        e.Description,
		Amount:             e.Amount,
		EmployeeID:         e.EmployeeID,
		ExpenseDate:        e.ExpenseDate,
		PreviousAmount:     previousAmount,
		PreviousEmployeeID: previousEmployeeID,
	}
}

// ExpenseDeletedEvent is raised when an expense is deleted
type ExpenseDeletedEvent struct {
	shared.BaseDomainEvent
	ExpenseID     uuid.UUID       `json:"expense_id"`
	ExpenseNumber string          `json:"expense_number"`
	Amount        decimal.Decimal `json:"amount"`
	EmployeeID    *uuid.UUID      `json:"employee_id,omitempty"`
}

// EventType returns the event type name
func (e *ExpenseDeletedEvent) EventType() string {
	return EventTypeExpenseDeleted
}

// NewExpenseDeletedEvent creates a new ExpenseDeletedEvent
func NewExpenseDeletedEvent(e *Expense) *ExpenseDeletedEvent {
	return &ExpenseDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseDeleted, "Expense", e.ID),
		ExpenseID:       e.ID,
		ExpenseNumber:   e.ExpenseNumber,
		Amount:          e.Amount,
		EmployeeID:      e.EmployeeID,
	}
}
