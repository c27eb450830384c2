package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sitecost/backend/internal/domain/expense"
	"github.com/sitecost/backend/internal/domain/pettycash"
	"github.com/sitecost/backend/internal/domain/shared/valueobject"
)

type mockTxRepo struct {
	mock.Mock
}

func (m *mockTxRepo) Create(ctx context.Context, tx *pettycash.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *mockTxRepo) FindByID(ctx context.Context, id uuid.UUID) (*pettycash.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pettycash.Transaction), args.Error(1)
}

func (m *mockTxRepo) FindByEmployee(ctx context.Context, employeeID uuid.UUID, filter pettycash.Filter) ([]*pettycash.Transaction, int64, error) {
	args := m.Called(ctx, employeeID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*pettycash.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *mockTxRepo) FindRecentByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]*pettycash.Transaction, error) {
	args := m.Called(ctx, employeeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pettycash.Transaction), args.Error(1)
}

func (m *mockTxRepo) FindSuffix(ctx context.Context, after *pettycash.Transaction) ([]*pettycash.Transaction, error) {
	args := m.Called(ctx, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pettycash.Transaction), args.Error(1)
}

func (m *mockTxRepo) FindByReference(ctx context.Context, refType pettycash.ReferenceType, referenceID string) (*pettycash.Transaction, error) {
	args := m.Called(ctx, refType, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pettycash.Transaction), args.Error(1)
}

func (m *mockTxRepo) LastByEmployee(ctx context.Context, employeeID uuid.UUID) (*pettycash.Transaction, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pettycash.Transaction), args.Error(1)
}

func (m *mockTxRepo) SumAmountByType(ctx context.Context, employeeID uuid.UUID, txType pettycash.TransactionType) (decimal.Decimal, error) {
	args := m.Called(ctx, employeeID, txType)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockTxRepo) SumAmountByReferenceType(ctx context.Context, employeeID uuid.UUID, refType pettycash.ReferenceType) (decimal.Decimal, error) {
	args := m.Called(ctx, employeeID, refType)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockTxRepo) UpdateBalances(ctx context.Context, txs []*pettycash.Transaction) error {
	return m.Called(ctx, txs).Error(0)
}

func (m *mockTxRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTxRepo) ListEmployeeIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

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
	return m.Called(ctx, e).Error(0)
}

func (m *mockExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockExpenseRepo) GenerateExpenseNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func TestGetPettyCashSummary(t *testing.T) {
	ctx := context.Background()
	txRepo := new(mockTxRepo)
	svc := NewReportService(txRepo, new(mockExpenseRepo))

	empA := uuid.New()
	empB := uuid.New()

	txRepo.On("ListEmployeeIDs", ctx).Return([]uuid.UUID{empA, empB}, nil)
	txRepo.On("SumAmountByType", ctx, empA, pettycash.TransactionTypeCredit).Return(decimal.NewFromInt(1000), nil)
	txRepo.On("SumAmountByType", ctx, empA, pettycash.TransactionTypeDebit).Return(decimal.NewFromInt(400), nil)
	txRepo.On("SumAmountByReferenceType", ctx, empA, pettycash.ReferenceTypeExpense).Return(decimal.NewFromInt(300), nil)
	txRepo.On("SumAmountByType", ctx, empB, pettycash.TransactionTypeCredit).Return(decimal.NewFromInt(500), nil)
	txRepo.On("SumAmountByType", ctx, empB, pettycash.TransactionTypeDebit).Return(decimal.NewFromInt(800), nil)
	txRepo.On("SumAmountByReferenceType", ctx, empB, pettycash.ReferenceTypeExpense).Return(decimal.NewFromInt(800), nil)

	summary, err := svc.GetPettyCashSummary(ctx)
	require.NoError(t, err)

	assert.True(t, summary.TotalAllocated.Equal(decimal.NewFromInt(1500)))
	assert.True(t, summary.TotalSpent.Equal(decimal.NewFromInt(1200)))
	assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(1100)))
	assert.True(t, summary.TotalDifference.Equal(decimal.NewFromInt(-400)))
	assert.True(t, summary.TotalOutstanding.Equal(decimal.NewFromInt(300)))
	require.Len(t, summary.Employees, 2)

	byEmployee := map[uuid.UUID]EmployeeLedgerSummary{}
	for _, row := range summary.Employees {
		byEmployee[row.EmployeeID] = row
	}
	assert.True(t, byEmployee[empA].Balance.Equal(decimal.NewFromInt(600)))
	assert.True(t, byEmployee[empA].ExpenseCreditDifference.Equal(decimal.NewFromInt(-700)))
	// overspent employees show up with their negative balance
	assert.True(t, byEmployee[empB].Balance.Equal(decimal.NewFromInt(-300)))
	assert.True(t, byEmployee[empB].ExpenseCreditDifference.Equal(decimal.NewFromInt(300)))
}

func TestGetExpenseSummary(t *testing.T) {
	ctx := context.Background()
	expenseRepo := new(mockExpenseRepo)
	svc := NewReportService(new(mockTxRepo), expenseRepo)

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	withVAT, err := expense.NewExpense("EXP-1", expense.CategoryMaterials, "cement", decimal.NewFromInt(1000), true, valueobject.DefaultVATRate, "", nil, nil, date)
	require.NoError(t, err)
	noVAT, err := expense.NewExpense("EXP-2", expense.CategoryMaterials, "sand", decimal.NewFromInt(200), false, valueobject.DefaultVATRate, "", nil, nil, date)
	require.NoError(t, err)
	fuel, err := expense.NewExpense("EXP-3", expense.CategoryFuel, "diesel", decimal.NewFromInt(300), false, valueobject.DefaultVATRate, "", nil, nil, date)
	require.NoError(t, err)

	expenseRepo.On("FindAll", ctx, mock.Anything).
		Return([]*expense.Expense{withVAT, noVAT, fuel}, int64(3), nil)

	summary, err := svc.GetExpenseSummary(ctx, nil, nil)
	require.NoError(t, err)

	assert.True(t, summary.TotalNet.Equal(decimal.NewFromInt(1500)))
	assert.True(t, summary.TotalVAT.Equal(decimal.NewFromInt(50)))
	assert.True(t, summary.TotalGross.Equal(decimal.NewFromInt(1550)))

	require.Len(t, summary.ByCategory, 2)
	assert.Equal(t, "MATERIALS", summary.ByCategory[0].Category)
	assert.Equal(t, 2, summary.ByCategory[0].Count)
	assert.True(t, summary.ByCategory[0].Gross.Equal(decimal.NewFromInt(1250)))
	assert.Equal(t, "FUEL", summary.ByCategory[1].Category)
}
