package pettycash

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitecost/backend/internal/domain/pettycash"
	"github.com/sitecost/backend/internal/domain/shared"
)

// LedgerService provides application-level petty cash ledger operations.
// It owns the running-balance bookkeeping: appends compute the new balance
// from the insertion point, and removals replay every later entry of the
// same employee so the chain of balances stays consistent.
//
// All mutating operations on one employee's ledger are serialized with a
// per-employee lock; operations on different employees proceed concurrently.
type LedgerService struct {
	txRepo pettycash.TransactionRepository

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(txRepo pettycash.TransactionRepository) *LedgerService {
	return &LedgerService{
		txRepo: txRepo,
		locks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockEmployee acquires the mutation lock for one employee's ledger
func (s *LedgerService) lockEmployee(employeeID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	l, ok := s.locks[employeeID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[employeeID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l
}

// TransactionResponse represents a petty cash transaction in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	EmployeeID      uuid.UUID       `json:"employee_id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Description     string          `json:"description"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     *string         `json:"reference_id,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AppendTransactionRequest represents a request to append a ledger entry
type AppendTransactionRequest struct {
	EmployeeID      uuid.UUID       `json:"employee_id" binding:"required"`
	Type            string          `json:"type" binding:"required,oneof=CREDIT DEBIT"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description"`
	ReferenceType   string          `json:"reference_type" binding:"omitempty,oneof=INITIAL MANUAL ADJUSTMENT"`
	TransactionDate *time.Time      `json:"transaction_date"`
}

// defaultRecentTransactions is how many of an employee's latest ledger
// entries a balance summary carries
const defaultRecentTransactions = 5

// EmployeeBalanceResponse represents an employee's petty cash position.
// ExpenseCreditDifference is TotalExpenses minus TotalCredits, summed from
// the rows themselves rather than read off the running balance.
type EmployeeBalanceResponse struct {
	EmployeeID              uuid.UUID             `json:"employee_id"`
	Balance                 decimal.Decimal       `json:"balance"`
	TotalCredits            decimal.Decimal       `json:"total_credits"`
	TotalDebits             decimal.Decimal       `json:"total_debits"`
	TotalExpenses           decimal.Decimal       `json:"total_expenses"`
	ExpenseCreditDifference decimal.Decimal       `json:"expense_credit_difference"`
	RecentTransactions      []TransactionResponse `json:"recent_transactions"`
	LastTransactionAt       *time.Time            `json:"last_transaction_at,omitempty"`
}

// ListFilter defines filtering options for transaction list queries
type ListFilter struct {
	Type     string `form:"type" binding:"omitempty,oneof=CREDIT DEBIT"`
	RefType  string `form:"reference_type" binding:"omitempty,oneof=INITIAL MANUAL EXPENSE ADJUSTMENT"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// AppendTransaction appends a manual ledger entry. Entries carrying an
// earlier transaction date than the ledger tail are inserted at their
// chronological position and every later entry is replayed.
func (s *LedgerService) AppendTransaction(ctx context.Context, req AppendTransactionRequest) (*TransactionResponse, error) {
	refType := pettycash.ReferenceTypeManual
	if req.ReferenceType != "" {
		refType = pettycash.ReferenceType(req.ReferenceType)
	}

	lock := s.lockEmployee(req.EmployeeID)
	defer lock.Unlock()

	tx, err := s.append(ctx, req.EmployeeID, pettycash.TransactionType(req.Type), req.Amount, req.Description, refType, nil, req.TransactionDate)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// append creates one ledger entry at its chronological position and replays
// any later entries. Caller must hold the employee lock.
func (s *LedgerService) append(
	ctx context.Context,
	employeeID uuid.UUID,
	txType pettycash.TransactionType,
	amount decimal.Decimal,
	description string,
	refType pettycash.ReferenceType,
	referenceID *string,
	transactionDate *time.Time,
) (*pettycash.Transaction, error) {
	tx, err := pettycash.NewTransaction(employeeID, txType, amount, decimal.Zero, description, refType)
	if err != nil {
		return nil, err
	}
	if referenceID != nil {
		tx.WithReferenceID(*referenceID)
	}
	if transactionDate != nil && !transactionDate.IsZero() {
		tx.WithTransactionDate(*transactionDate)
	}

	suffix, err := s.txRepo.FindSuffix(ctx, tx)
	if err != nil {
		return nil, err
	}

	var balanceBefore decimal.Decimal
	if len(suffix) > 0 {
		// Backdated entry: the balance at the insertion point is whatever
		// the first later entry saw before it ran.
		balanceBefore = suffix[0].BalanceBefore
	} else {
		last, err := s.txRepo.LastByEmployee(ctx, employeeID)
		switch {
		case err == nil:
			balanceBefore = last.BalanceAfter
		case errors.Is(err, shared.ErrNotFound):
			balanceBefore = decimal.Zero
		default:
			return nil, err
		}
	}

	tx.BalanceBefore = balanceBefore
	tx.BalanceAfter = balanceBefore.Add(tx.SignedAmount())

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	if len(suffix) > 0 {
		pettycash.Replay(tx.BalanceAfter, suffix)
		if err := s.txRepo.UpdateBalances(ctx, suffix); err != nil {
			return nil, err
		}
	}

	return tx, nil
}

// RemoveTransaction deletes a manual ledger entry and replays the
// employee's later entries from the removed entry's prior balance.
// Entries created from expenses cannot be removed here; deleting the
// expense removes them.
func (s *LedgerService) RemoveTransaction(ctx context.Context, id uuid.UUID) error {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if tx.IsExpenseDebit() {
		return shared.NewDomainError("EXPENSE_LINKED", "Transaction belongs to an expense; delete the expense instead")
	}

	lock := s.lockEmployee(tx.EmployeeID)
	defer lock.Unlock()

	return s.remove(ctx, tx)
}

// remove deletes a ledger entry and replays its suffix. Caller must hold
// the employee lock.
func (s *LedgerService) remove(ctx context.Context, tx *pettycash.Transaction) error {
	suffix, err := s.txRepo.FindSuffix(ctx, tx)
	if err != nil {
		return err
	}

	if err := s.txRepo.Delete(ctx, tx.ID); err != nil {
		return err
	}

	if len(suffix) > 0 {
		pettycash.Replay(tx.BalanceBefore, suffix)
		if err := s.txRepo.UpdateBalances(ctx, suffix); err != nil {
			return err
		}
	}

	return nil
}

// RecordExpenseDebit appends a debit created from an expense. Idempotent:
// if a ledger entry already references the expense, nothing happens.
func (s *LedgerService) RecordExpenseDebit(
	ctx context.Context,
	expenseID uuid.UUID,
	employeeID uuid.UUID,
	amount decimal.Decimal,
	description string,
	expenseDate time.Time,
) error {
	refID := expenseID.String()

	lock := s.lockEmployee(employeeID)
	defer lock.Unlock()

	_, err := s.txRepo.FindByReference(ctx, pettycash.ReferenceTypeExpense, refID)
	if err == nil {
		return nil // already recorded
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	_, err = s.append(ctx, employeeID, pettycash.TransactionTypeDebit, amount, description, pettycash.ReferenceTypeExpense, &refID, &expenseDate)
	return err
}

// RemoveExpenseDebit removes the ledger entry created from an expense, if
// any, replaying later entries. Returns false without error when the
// expense never hit a ledger, so callers can report the dangling reference.
func (s *LedgerService) RemoveExpenseDebit(ctx context.Context, expenseID uuid.UUID) (bool, error) {
	tx, err := s.txRepo.FindByReference(ctx, pettycash.ReferenceTypeExpense, expenseID.String())
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	lock := s.lockEmployee(tx.EmployeeID)
	defer lock.Unlock()

	if err := s.remove(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}

// ReconcileExpenseDebit brings the ledger in line with an updated expense:
// the old debit (if any) is removed and a fresh one recorded when the
// expense is still attributed to an employee. The original entry's
// transaction date is preserved when only the amount changed.
func (s *LedgerService) ReconcileExpenseDebit(
	ctx context.Context,
	expenseID uuid.UUID,
	employeeID *uuid.UUID,
	amount decimal.Decimal,
	description string,
	expenseDate time.Time,
) error {
	existing, err := s.txRepo.FindByReference(ctx, pettycash.ReferenceTypeExpense, expenseID.String())
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	if existing != nil {
		sameEmployee := employeeID != nil && existing.EmployeeID == *employeeID
		if sameEmployee && existing.Amount.Equal(amount) {
			return nil // nothing the ledger cares about changed
		}
		if sameEmployee {
			expenseDate = existing.TransactionDate
		}
		if _, err := s.RemoveExpenseDebit(ctx, expenseID); err != nil {
			return err
		}
	}

	if employeeID == nil {
		return nil
	}
	return s.RecordExpenseDebit(ctx, expenseID, *employeeID, amount, description, expenseDate)
}

// GetTransaction returns one transaction by ID
func (s *LedgerService) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// ListTransactions lists an employee's transactions newest-first
func (s *LedgerService) ListTransactions(ctx context.Context, employeeID uuid.UUID, filter ListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := pettycash.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Type != "" {
		t := pettycash.TransactionType(filter.Type)
		domainFilter.Type = &t
	}
	if filter.RefType != "" {
		r := pettycash.ReferenceType(filter.RefType)
		domainFilter.RefType = &r
	}

	txs, total, err := s.txRepo.FindByEmployee(ctx, employeeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		responses[i] = *toTransactionResponse(tx)
	}
	return responses, total, nil
}

// GetEmployeeBalance returns one employee's current petty cash position.
// An employee with no transactions has a zero balance.
func (s *LedgerService) GetEmployeeBalance(ctx context.Context, employeeID uuid.UUID) (*EmployeeBalanceResponse, error) {
	resp := &EmployeeBalanceResponse{
		EmployeeID:              employeeID,
		Balance:                 decimal.Zero,
		TotalCredits:            decimal.Zero,
		TotalDebits:             decimal.Zero,
		TotalExpenses:           decimal.Zero,
		ExpenseCreditDifference: decimal.Zero,
		RecentTransactions:      []TransactionResponse{},
	}

	last, err := s.txRepo.LastByEmployee(ctx, employeeID)
	if errors.Is(err, shared.ErrNotFound) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	resp.Balance = last.BalanceAfter
	resp.LastTransactionAt = &last.TransactionDate

	credits, err := s.txRepo.SumAmountByType(ctx, employeeID, pettycash.TransactionTypeCredit)
	if err != nil {
		return nil, err
	}
	debits, err := s.txRepo.SumAmountByType(ctx, employeeID, pettycash.TransactionTypeDebit)
	if err != nil {
		return nil, err
	}
	expenses, err := s.txRepo.SumAmountByReferenceType(ctx, employeeID, pettycash.ReferenceTypeExpense)
	if err != nil {
		return nil, err
	}
	resp.TotalCredits = credits
	resp.TotalDebits = debits
	resp.TotalExpenses = expenses
	resp.ExpenseCreditDifference = expenses.Sub(credits)

	recent, err := s.txRepo.FindRecentByEmployee(ctx, employeeID, defaultRecentTransactions)
	if err != nil {
		return nil, err
	}
	resp.RecentTransactions = make([]TransactionResponse, len(recent))
	for i, tx := range recent {
		resp.RecentTransactions[i] = *toTransactionResponse(tx)
	}

	return resp, nil
}

// ListBalances returns the petty cash position of every employee with at
// least one transaction
func (s *LedgerService) ListBalances(ctx context.Context) ([]EmployeeBalanceResponse, error) {
	ids, err := s.txRepo.ListEmployeeIDs(ctx)
	if err != nil {
		return nil, err
	}

	balances := make([]EmployeeBalanceResponse, 0, len(ids))
	for _, id := range ids {
		b, err := s.GetEmployeeBalance(ctx, id)
		if err != nil {
			return nil, err
		}
		balances = append(balances, *b)
	}
	return balances, nil
}

func toTransactionResponse(tx *pettycash.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              tx.ID,
		EmployeeID:      tx.EmployeeID,
		Type:            string(tx.Type),
		Amount:          tx.Amount,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
		Description:     tx.Description,
		ReferenceType:   string(tx.ReferenceType),
		ReferenceID:     tx.ReferenceID,
		TransactionDate: tx.TransactionDate,
		CreatedAt:       tx.CreatedAt,
	}
}
