package pettycash

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sitecost/backend/internal/domain/expense"
	"github.com/sitecost/backend/internal/domain/shared"
)

// ExpenseCreatedHandler debits an employee's petty cash ledger when an
// expense attributed to that employee is created. Expenses without an
// employee never touch a ledger.
type ExpenseCreatedHandler struct {
	ledger *LedgerService
	logger *zap.Logger
}

// NewExpenseCreatedHandler creates a new handler for expense created events
func NewExpenseCreatedHandler(ledger *LedgerService, logger *zap.Logger) *ExpenseCreatedHandler {
	return &ExpenseCreatedHandler{ledger: ledger, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ExpenseCreatedHandler) EventTypes() []string {
	return []string{expense.EventTypeExpenseCreated}
}

// Handle processes an ExpenseCreatedEvent by recording a ledger debit
func (h *ExpenseCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*expense.ExpenseCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			expense.EventTypeExpenseCreated, event.EventType())
	}

	if created.EmployeeID == nil {
		return nil // supplier-paid expense, no ledger impact
	}

	h.logger.Info("recording petty cash debit for expense",
		zap.String("expense_id", created.ExpenseID.String()),
		zap.String("expense_number", created.ExpenseNumber),
		zap.String("employee_id", created.EmployeeID.String()),
		zap.String("amount", created.Amount.String()),
	)

	err := h.ledger.RecordExpenseDebit(ctx, created.ExpenseID, *created.EmployeeID,
		created.Amount, created.Description, created.ExpenseDate)
	if err != nil {
		h.logger.Error("failed to record petty cash debit",
			zap.String("expense_id", created.ExpenseID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to record petty cash debit: %w", err)
	}
	return nil
}

// ExpenseUpdatedHandler reconciles the ledger after an expense changed
// amount or employee attribution
type ExpenseUpdatedHandler struct {
	ledger *LedgerService
	logger *zap.Logger
}

// NewExpenseUpdatedHandler creates a new handler for expense updated events
func NewExpenseUpdatedHandler(ledger *LedgerService, logger *zap.Logger) *ExpenseUpdatedHandler {
	return &ExpenseUpdatedHandler{ledger: ledger, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ExpenseUpdatedHandler) EventTypes() []string {
	return []string{expense.EventTypeExpenseUpdated}
}

// Handle processes an ExpenseUpdatedEvent by reconciling the ledger debit
func (h *ExpenseUpdatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	updated, ok := event.(*expense.ExpenseUpdatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			expense.EventTypeExpenseUpdated, event.EventType())
	}

	if updated.EmployeeID == nil && updated.PreviousEmployeeID == nil {
		return nil // never was and still is not on a ledger
	}

	h.logger.Info("reconciling petty cash debit for updated expense",
		zap.String("expense_id", updated.ExpenseID.String()),
		zap.String("expense_number", updated.ExpenseNumber),
		zap.String("amount", updated.Amount.String()),
		zap.String("previous_amount", updated.PreviousAmount.String()),
	)

	err := h.ledger.ReconcileExpenseDebit(ctx, updated.ExpenseID, updated.EmployeeID,
		updated.Amount, updated.Description, updated.ExpenseDate)
	if err != nil {
		h.logger.Error("failed to reconcile petty cash debit",
			zap.String("expense_id", updated.ExpenseID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to reconcile petty cash debit: %w", err)
	}
	return nil
}

// ExpenseDeletedHandler removes the ledger debit of a deleted expense and
// replays the employee's later entries
type ExpenseDeletedHandler struct {
	ledger *LedgerService
	logger *zap.Logger
}

// NewExpenseDeletedHandler creates a new handler for expense deleted events
func NewExpenseDeletedHandler(ledger *LedgerService, logger *zap.Logger) *ExpenseDeletedHandler {
	return &ExpenseDeletedHandler{ledger: ledger, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ExpenseDeletedHandler) EventTypes() []string {
	return []string{expense.EventTypeExpenseDeleted}
}

// Handle processes an ExpenseDeletedEvent by removing the ledger debit
func (h *ExpenseDeletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	deleted, ok := event.(*expense.ExpenseDeletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			expense.EventTypeExpenseDeleted, event.EventType())
	}

	h.logger.Info("removing petty cash debit for deleted expense",
		zap.String("expense_id", deleted.ExpenseID.String()),
		zap.String("expense_number", deleted.ExpenseNumber),
	)

	removed, err := h.ledger.RemoveExpenseDebit(ctx, deleted.ExpenseID)
	if err != nil {
		h.logger.Error("failed to remove petty cash debit",
			zap.String("expense_id", deleted.ExpenseID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to remove petty cash debit: %w", err)
	}
	if !removed && deleted.EmployeeID != nil {
		h.logger.Warn("no petty cash debit found for deleted expense",
			zap.String("expense_id", deleted.ExpenseID.String()),
			zap.String("expense_number", deleted.ExpenseNumber),
			zap.String("employee_id", deleted.EmployeeID.String()),
		)
	}
	return nil
}

// Compile-time interface checks
var (
	_ shared.EventHandler = (*ExpenseCreatedHandler)(nil)
	_ shared.EventHandler = (*ExpenseUpdatedHandler)(nil)
	_ shared.EventHandler = (*ExpenseDeletedHandler)(nil)
)
