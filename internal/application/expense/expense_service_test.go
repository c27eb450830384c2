package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sitecost/backend/internal/domain/expense"
	"github.com/sitecost/backend/internal/domain/shared"
)

type mockExpenseRepo struct {
	mock.Mock
}

func (m *mockExpenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expense.Expense), args.Error(1)
}

func (m *mockExpenseRepo) FindByNumber(ctx context.Context, expenseNumber string) (*expense.Expense, error) {
	args := m.Called(ctx, expenseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expense.Expense), args.Error(1)
}

func (m *mockExpenseRepo) FindAll(ctx context.Context, filter expense.Filter) ([]*expense.Expense, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*expense.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *mockExpenseRepo) Save(ctx context.Context, e *expense.Expense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockExpenseRepo) GenerateExpenseNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newService(repo *mockExpenseRepo, pub *mockPublisher) *ExpenseService {
	return NewExpenseService(repo, pub, zap.NewNop())
}

func createReq(amount int64, withVAT bool, employeeID *uuid.UUID) CreateExpenseRequest {
	return CreateExpenseRequest{
		Category:    "MATERIALS",
		Description: "cement bags",
		Amount:      decimal.NewFromInt(amount),
		WithVAT:     withVAT,
		EmployeeID:  employeeID,
		ExpenseDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestExpenseServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates expense with additive VAT", func(t *testing.T) {
		repo := new(mockExpenseRepo)
		pub := new(mockPublisher)
		svc := newService(repo, pub)

		repo.On("GenerateExpenseNumber", ctx).Return("EXP-2026-0001", nil)
		repo.On("Save", ctx, mock.AnythingOfType("*expense.Expense")).Return(nil)
		pub.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, createReq(1000, true, nil))
		require.NoError(t, err)
		assert.Equal(t, "EXP-2026-0001", resp.ExpenseNumber)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(1050)))
		assert.True(t, resp.VATAmount.Equal(decimal.NewFromInt(50)))
		assert.True(t, resp.BaseAmount.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, "AED", resp.Currency)

		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("without VAT the amount is stored as entered", func(t *testing.T) {
		repo := new(mockExpenseRepo)
		pub := new(mockPublisher)
		svc := newService(repo, pub)

		repo.On("GenerateExpenseNumber", ctx).Return("EXP-2026-0002", nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)
		pub.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, createReq(1000, false, nil))
		require.NoError(t, err)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, resp.VATAmount.IsZero())
	})

	t.Run("ledger failure fails the create", func(t *testing.T) {
		repo := new(mockExpenseRepo)
		pub := new(mockPublisher)
		svc := newService(repo, pub)
		emp := uuid.New()

		repo.On("GenerateExpenseNumber", ctx).Return("EXP-2026-0003", nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)
		pub.On("Publish", ctx, mock.Anything).Return(errors.New("ledger unavailable"))

		_, err := svc.Create(ctx, createReq(1000, false, &emp))
		assert.Error(t, err)
	})

	t.Run("invalid category is rejected before save", func(t *testing.T) {
		repo := new(mockExpenseRepo)
		pub := new(mockPublisher)
		svc := newService(repo, pub)

		repo.On("GenerateExpenseNumber", ctx).Return("EXP-2026-0004", nil)

		req := createReq(1000, false, nil)
		req.Category = "YACHTS"
		_, err := svc.Create(ctx, req)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestExpenseServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes updated event after save", func(t *testing.T) {
		repo := new(mockExpenseRepo)
		pub := new(mockPublisher)
		svc := newService(repo, pub)
		emp := uuid.New()

		existing, err := expense.NewExpense("EXP-2026-0005", expense.CategoryFuel, "diesel", decimal.NewFromInt(200), false, decimal.NewFromFloat(0.05), "", nil, &emp, time.Now())
		require.NoError(t, err)
		existing.ClearDomainEvents()

		repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)
		pub.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == expense.EventTypeExpenseUpdated
		})).Return(nil)

		resp, err := svc.Update(ctx, existing.ID, UpdateExpenseRequest{
			Category:    "FUEL",
			Description: "diesel",
			Amount:      decimal.NewFromInt(250),
			EmployeeID:  &emp,
			ExpenseDate: time.Now(),
		})
		require.NoError(t, err)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(250)))
		pub.AssertExpectations(t)
	})

	t.Run("not found propagates", func(t *testing.T) {
		repo := new(mockExpenseRepo)
		pub := new(mockPublisher)
		svc := newService(repo, pub)
		id := uuid.New()

		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, id, UpdateExpenseRequest{Category: "FUEL", Description: "diesel", Amount: decimal.NewFromInt(1), ExpenseDate: time.Now()})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestExpenseServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes deleted event after removal", func(t *testing.T) {
		repo := new(mockExpenseRepo)
		pub := new(mockPublisher)
		svc := newService(repo, pub)
		emp := uuid.New()

		existing, err := expense.NewExpense("EXP-2026-0006", expense.CategoryTransport, "crane move", decimal.NewFromInt(900), false, decimal.NewFromFloat(0.05), "", nil, &emp, time.Now())
		require.NoError(t, err)
		existing.ClearDomainEvents()

		repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		repo.On("Delete", ctx, existing.ID).Return(nil)
		pub.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == expense.EventTypeExpenseDeleted
		})).Return(nil)

		require.NoError(t, svc.Delete(ctx, existing.ID))
		pub.AssertExpectations(t)
	})

	t.Run("ledger failure fails the delete", func(t *testing.T) {
		repo := new(mockExpenseRepo)
		pub := new(mockPublisher)
		svc := newService(repo, pub)

		existing, err := expense.NewExpense("EXP-2026-0007", expense.CategoryOther, "permit fee", decimal.NewFromInt(75), false, decimal.NewFromFloat(0.05), "", nil, nil, time.Now())
		require.NoError(t, err)
		existing.ClearDomainEvents()

		repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		repo.On("Delete", ctx, existing.ID).Return(nil)
		pub.On("Publish", ctx, mock.Anything).Return(errors.New("replay failed"))

		assert.Error(t, svc.Delete(ctx, existing.ID))
	})
}
