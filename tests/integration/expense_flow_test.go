// Package integration provides integration tests for the expense to petty
// cash ledger bridge. This file tests the event-driven flow end to end:
// - Creating an employee-attributed expense debits the employee's ledger
// - Updating the expense amount reconciles the debit
// - Deleting the expense removes the debit and replays later entries
package integration

import (
	"context"
	"testing"
	"time"

	expenseapp "github.com/sitecost/backend/internal/application/expense"
	pettycashapp "github.com/sitecost/backend/internal/application/pettycash"
	"github.com/sitecost/backend/internal/infrastructure/event"
	"github.com/sitecost/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ExpenseFlowTestSetup wires the expense service to the petty cash ledger
// through the in-memory event bus, backed by a real database.
type ExpenseFlowTestSetup struct {
	DB         *TestDB
	Expenses   *expenseapp.ExpenseService
	Ledger     *pettycashapp.LedgerService
	EmployeeID uuid.UUID
}

// NewExpenseFlowTestSetup creates the full expense-to-ledger wiring
func NewExpenseFlowTestSetup(t *testing.T) *ExpenseFlowTestSetup {
	t.Helper()

	testDB := NewTestDB(t)
	log := zap.NewNop()

	txRepo := persistence.NewGormPettyCashTransactionRepository(testDB.DB)
	expenseRepo := persistence.NewGormExpenseRepository(testDB.DB)

	ledger := pettycashapp.NewLedgerService(txRepo)

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(pettycashapp.NewExpenseCreatedHandler(ledger, log))
	bus.Subscribe(pettycashapp.NewExpenseUpdatedHandler(ledger, log))
	bus.Subscribe(pettycashapp.NewExpenseDeletedHandler(ledger, log))
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() {
		_ = bus.Stop(context.Background())
	})

	expenses := expenseapp.NewExpenseService(expenseRepo, bus, log)

	employeeID := uuid.New()
	testDB.CreateTestEmployee(employeeID)

	return &ExpenseFlowTestSetup{
		DB:         testDB,
		Expenses:   expenses,
		Ledger:     ledger,
		EmployeeID: employeeID,
	}
}

func TestExpenseFlow_CreateDebitsLedger(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewExpenseFlowTestSetup(t)
	ctx := context.Background()

	created, err := setup.Expenses.Create(ctx, expenseapp.CreateExpenseRequest{
		Category:    "MATERIALS",
		Description: "Cement bags",
		Amount:      decimal.NewFromInt(400),
		EmployeeID:  &setup.EmployeeID,
		ExpenseDate: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, created.EmployeeID)

	balance, err := setup.Ledger.GetEmployeeBalance(ctx, setup.EmployeeID)
	require.NoError(t, err)
	assert.True(t, balance.Balance.Equal(decimal.NewFromInt(-400)),
		"expected -400, got %s", balance.Balance)
	assert.True(t, balance.TotalDebits.Equal(decimal.NewFromInt(400)))
}

func TestExpenseFlow_VATExpenseDebitsGrossAmount(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewExpenseFlowTestSetup(t)
	ctx := context.Background()

	// 200 base + 5% additive VAT = 210 gross
	created, err := setup.Expenses.Create(ctx, expenseapp.CreateExpenseRequest{
		Category:    "TRANSPORT",
		Description: "Truck rental",
		Amount:      decimal.NewFromInt(200),
		WithVAT:     true,
		EmployeeID:  &setup.EmployeeID,
		ExpenseDate: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, created.VATAmount.Equal(decimal.NewFromInt(10)))
	assert.True(t, created.Amount.Equal(decimal.NewFromInt(210)))

	balance, err := setup.Ledger.GetEmployeeBalance(ctx, setup.EmployeeID)
	require.NoError(t, err)
	assert.True(t, balance.Balance.Equal(decimal.NewFromInt(-210)))
}

func TestExpenseFlow_SupplierExpenseSkipsLedger(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewExpenseFlowTestSetup(t)
	ctx := context.Background()

	supplierID := uuid.New()
	setup.DB.CreateTestSupplier(supplierID)

	_, err := setup.Expenses.Create(ctx, expenseapp.CreateExpenseRequest{
		Category:    "EQUIPMENT_RENTAL",
		Description: "Crane hire",
		Amount:      decimal.NewFromInt(5000),
		SupplierID:  &supplierID,
		ExpenseDate: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	balances, err := setup.Ledger.ListBalances(ctx)
	require.NoError(t, err)
	assert.Empty(t, balances, "supplier-paid expense must not touch any ledger")
}

func TestExpenseFlow_UpdateReconcilesDebit(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewExpenseFlowTestSetup(t)
	ctx := context.Background()

	created, err := setup.Expenses.Create(ctx, expenseapp.CreateExpenseRequest{
		Category:    "FUEL",
		Description: "Diesel",
		Amount:      decimal.NewFromInt(100),
		EmployeeID:  &setup.EmployeeID,
		ExpenseDate: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = setup.Expenses.Update(ctx, created.ID, expenseapp.UpdateExpenseRequest{
		Category:    "FUEL",
		Description: "Diesel",
		Amount:      decimal.NewFromInt(160),
		EmployeeID:  &setup.EmployeeID,
		ExpenseDate: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	balance, err := setup.Ledger.GetEmployeeBalance(ctx, setup.EmployeeID)
	require.NoError(t, err)
	assert.True(t, balance.Balance.Equal(decimal.NewFromInt(-160)),
		"expected -160 after reconcile, got %s", balance.Balance)
}

func TestExpenseFlow_DeleteRemovesDebitAndReplays(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewExpenseFlowTestSetup(t)
	ctx := context.Background()

	// Fund the employee first
	_, err := setup.Ledger.AppendTransaction(ctx, pettycashapp.AppendTransactionRequest{
		EmployeeID:      setup.EmployeeID,
		Type:            "CREDIT",
		Amount:          decimal.NewFromInt(1000),
		ReferenceType:   "INITIAL",
		TransactionDate: date(1),
	})
	require.NoError(t, err)

	created, err := setup.Expenses.Create(ctx, expenseapp.CreateExpenseRequest{
		Category:    "SITE_SERVICES",
		Description: "Waste removal",
		Amount:      decimal.NewFromInt(300),
		EmployeeID:  &setup.EmployeeID,
		ExpenseDate: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// A later manual debit on top of the expense debit
	later, err := setup.Ledger.AppendTransaction(ctx, pettycashapp.AppendTransactionRequest{
		EmployeeID:      setup.EmployeeID,
		Type:            "DEBIT",
		Amount:          decimal.NewFromInt(50),
		TransactionDate: date(10),
	})
	require.NoError(t, err)
	assert.True(t, later.BalanceAfter.Equal(decimal.NewFromInt(650)))

	require.NoError(t, setup.Expenses.Delete(ctx, created.ID))

	// The expense debit is gone and the later entry was replayed
	replayed, err := setup.Ledger.GetTransaction(ctx, later.ID)
	require.NoError(t, err)
	assert.True(t, replayed.BalanceBefore.Equal(decimal.NewFromInt(1000)))
	assert.True(t, replayed.BalanceAfter.Equal(decimal.NewFromInt(950)))

	balance, err := setup.Ledger.GetEmployeeBalance(ctx, setup.EmployeeID)
	require.NoError(t, err)
	assert.True(t, balance.Balance.Equal(decimal.NewFromInt(950)))
}
