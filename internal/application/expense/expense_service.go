package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sitecost/backend/internal/domain/expense"
	"github.com/sitecost/backend/internal/domain/shared"
	"github.com/sitecost/backend/internal/domain/shared/valueobject"
)

// ExpenseService provides application-level expense operations. Ledger
// side effects run through the event bus synchronously: when an expense
// attributed to an employee is saved, the petty cash debit is recorded
// before the call returns, and a failing ledger update fails the call.
type ExpenseService struct {
	expenseRepo    expense.Repository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo expense.Repository, eventPublisher shared.EventPublisher, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{
		expenseRepo:    expenseRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	ExpenseNumber string          `json:"expense_number"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
	IsVAT         bool            `json:"is_vat"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	Currency      string          `json:"currency"`
	SupplierID    *uuid.UUID      `json:"supplier_id,omitempty"`
	EmployeeID    *uuid.UUID      `json:"employee_id,omitempty"`
	ExpenseDate   time.Time       `json:"expense_date"`
	Remark        string          `json:"remark,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateExpenseRequest represents a request to create an expense.
// Amount is the VAT-exclusive figure; with_vat adds tax on top of it.
type CreateExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	WithVAT     bool            `json:"with_vat"`
	Currency    string          `json:"currency"`
	SupplierID  *uuid.UUID      `json:"supplier_id"`
	EmployeeID  *uuid.UUID      `json:"employee_id"`
	ExpenseDate time.Time       `json:"expense_date" binding:"required"`
	Remark      string          `json:"remark"`
}

// UpdateExpenseRequest represents a request to update an expense
type UpdateExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	WithVAT     bool            `json:"with_vat"`
	SupplierID  *uuid.UUID      `json:"supplier_id"`
	EmployeeID  *uuid.UUID      `json:"employee_id"`
	ExpenseDate time.Time       `json:"expense_date" binding:"required"`
	Remark      string          `json:"remark"`
}

// ListFilter defines filtering options for expense list queries
type ListFilter struct {
	Category   string     `form:"category"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	EmployeeID *uuid.UUID `form:"employee_id"`
	FromDate   *time.Time `form:"from_date"`
	ToDate     *time.Time `form:"to_date"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// Create creates a new expense and, for employee-attributed expenses,
// records the petty cash debit
func (s *ExpenseService) Create(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	expenseNumber, err := s.expenseRepo.GenerateExpenseNumber(ctx)
	if err != nil {
		return nil, err
	}

	e, err := expense.NewExpense(
		expenseNumber,
		expense.Category(req.Category),
		req.Description,
		req.Amount,
		req.WithVAT,
		valueobject.DefaultVATRate,
		valueobject.Currency(req.Currency),
		req.SupplierID,
		req.EmployeeID,
		req.ExpenseDate,
	)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		e.SetRemark(req.Remark)
	}

	if err := s.expenseRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	if err := s.publishEvents(ctx, e); err != nil {
		return nil, err
	}

	return toExpenseResponse(e), nil
}

// GetByID gets an expense by ID
func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	e, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toExpenseResponse(e), nil
}

// Update updates an expense and reconciles the petty cash ledger when the
// amount or employee attribution changed
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	e, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = e.Update(
		expense.Category(req.Category),
		req.Description,
		req.Amount,
		req.WithVAT,
		valueobject.DefaultVATRate,
		req.SupplierID,
		req.EmployeeID,
		req.ExpenseDate,
	)
	if err != nil {
		return nil, err
	}
	e.SetRemark(req.Remark)

	if err := s.expenseRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	if err := s.publishEvents(ctx, e); err != nil {
		return nil, err
	}

	return toExpenseResponse(e), nil
}

// Delete removes an expense. The matching petty cash debit, if any, is
// removed and the employee's later entries are replayed.
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	e.MarkDeleted()

	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}

	return s.publishEvents(ctx, e)
}

// List lists expenses with filtering
func (s *ExpenseService) List(ctx context.Context, filter ListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter := expense.Filter{
		SupplierID: filter.SupplierID,
		EmployeeID: filter.EmployeeID,
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.Category != "" {
		category := expense.Category(filter.Category)
		domainFilter.Category = &category
	}

	expenses, total, err := s.expenseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = *toExpenseResponse(e)
	}
	return responses, total, nil
}

// publishEvents hands the aggregate's pending events to the bus. The bus is
// synchronous, so ledger errors surface here and fail the operation.
func (s *ExpenseService) publishEvents(ctx context.Context, e *expense.Expense) error {
	events := e.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to apply expense ledger side effects",
			zap.String("expense_id", e.ID.String()),
			zap.String("expense_number", e.ExpenseNumber),
			zap.Error(err),
		)
		return err
	}
	e.ClearDomainEvents()
	return nil
}

func toExpenseResponse(e *expense.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		ExpenseNumber: e.ExpenseNumber,
		Category:      string(e.Category),
		Description:   e.Description,
		Amount:        e.Amount,
		BaseAmount:    e.BaseAmount(),
		IsVAT:         e.IsVAT,
		VATAmount:     e.VATAmount,
		Currency:      string(e.Currency),
		SupplierID:    e.SupplierID,
		EmployeeID:    e.EmployeeID,
		ExpenseDate:   e.ExpenseDate,
		Remark:        e.Remark,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
