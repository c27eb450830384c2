package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitecost/backend/internal/domain/expense"
	"github.com/sitecost/backend/internal/domain/pettycash"
)

// ReportService computes reports directly from the live data on every
// request. Petty cash figures must always reflect the latest appends and
// removals, so nothing here is cached or pre-aggregated.
type ReportService struct {
	txRepo      pettycash.TransactionRepository
	expenseRepo expense.Repository
}

// NewReportService creates a new ReportService
func NewReportService(txRepo pettycash.TransactionRepository, expenseRepo expense.Repository) *ReportService {
	return &ReportService{
		txRepo:      txRepo,
		expenseRepo: expenseRepo,
	}
}

// ===================== Petty Cash Summary =====================

// EmployeeLedgerSummary represents one employee's row in the petty cash
// summary. ExpenseCreditDifference is ExpenseSpend minus TotalCredits,
// computed from the sums rather than the running balance.
type EmployeeLedgerSummary struct {
	EmployeeID              uuid.UUID       `json:"employee_id"`
	Balance                 decimal.Decimal `json:"balance"`
	TotalCredits            decimal.Decimal `json:"total_credits"`
	TotalDebits             decimal.Decimal `json:"total_debits"`
	ExpenseSpend            decimal.Decimal `json:"expense_spend"`
	ExpenseCreditDifference decimal.Decimal `json:"expense_credit_difference"`
}

// PettyCashSummaryResponse represents the company-wide petty cash summary
type PettyCashSummaryResponse struct {
	TotalAllocated   decimal.Decimal         `json:"total_allocated"`
	TotalSpent       decimal.Decimal         `json:"total_spent"`
	TotalExpenses    decimal.Decimal         `json:"total_expenses"`
	TotalDifference  decimal.Decimal         `json:"total_difference"`
	TotalOutstanding decimal.Decimal         `json:"total_outstanding"`
	Employees        []EmployeeLedgerSummary `json:"employees"`
}

// GetPettyCashSummary computes the petty cash position of every employee
// with ledger activity, plus company-wide totals
func (s *ReportService) GetPettyCashSummary(ctx context.Context) (*PettyCashSummaryResponse, error) {
	ids, err := s.txRepo.ListEmployeeIDs(ctx)
	if err != nil {
		return nil, err
	}

	summary := &PettyCashSummaryResponse{
		TotalAllocated:   decimal.Zero,
		TotalSpent:       decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TotalDifference:  decimal.Zero,
		TotalOutstanding: decimal.Zero,
		Employees:        make([]EmployeeLedgerSummary, 0, len(ids)),
	}

	for _, id := range ids {
		credits, err := s.txRepo.SumAmountByType(ctx, id, pettycash.TransactionTypeCredit)
		if err != nil {
			return nil, err
		}
		debits, err := s.txRepo.SumAmountByType(ctx, id, pettycash.TransactionTypeDebit)
		if err != nil {
			return nil, err
		}
		expenseSpend, err := s.txRepo.SumAmountByReferenceType(ctx, id, pettycash.ReferenceTypeExpense)
		if err != nil {
			return nil, err
		}

		row := EmployeeLedgerSummary{
			EmployeeID:              id,
			Balance:                 credits.Sub(debits),
			TotalCredits:            credits,
			TotalDebits:             debits,
			ExpenseSpend:            expenseSpend,
			ExpenseCreditDifference: expenseSpend.Sub(credits),
		}
		summary.Employees = append(summary.Employees, row)

		summary.TotalAllocated = summary.TotalAllocated.Add(credits)
		summary.TotalSpent = summary.TotalSpent.Add(debits)
		summary.TotalExpenses = summary.TotalExpenses.Add(expenseSpend)
		summary.TotalDifference = summary.TotalDifference.Add(row.ExpenseCreditDifference)
		summary.TotalOutstanding = summary.TotalOutstanding.Add(row.Balance)
	}

	return summary, nil
}

// ===================== Expense Summary =====================

// CategoryTotal represents expense totals for one category
type CategoryTotal struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Net      decimal.Decimal `json:"net"`
	VAT      decimal.Decimal `json:"vat"`
	Gross    decimal.Decimal `json:"gross"`
}

// ExpenseSummaryResponse represents the expense summary for a date range
type ExpenseSummaryResponse struct {
	From       *time.Time      `json:"from,omitempty"`
	To         *time.Time      `json:"to,omitempty"`
	TotalNet   decimal.Decimal `json:"total_net"`
	TotalVAT   decimal.Decimal `json:"total_vat"`
	TotalGross decimal.Decimal `json:"total_gross"`
	ByCategory []CategoryTotal `json:"by_category"`
}

// GetExpenseSummary computes expense totals by category for a date range.
// VAT figures only include expenses flagged as VAT-bearing.
func (s *ReportService) GetExpenseSummary(ctx context.Context, from, to *time.Time) (*ExpenseSummaryResponse, error) {
	filter := expense.Filter{
		FromDate: from,
		ToDate:   to,
	}

	expenses, _, err := s.expenseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := &ExpenseSummaryResponse{
		From:       from,
		To:         to,
		TotalNet:   decimal.Zero,
		TotalVAT:   decimal.Zero,
		TotalGross: decimal.Zero,
	}

	byCategory := make(map[expense.Category]*CategoryTotal)
	for _, e := range expenses {
		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &CategoryTotal{
				Category: string(e.Category),
				Net:      decimal.Zero,
				VAT:      decimal.Zero,
				Gross:    decimal.Zero,
			}
			byCategory[e.Category] = ct
		}

		net := e.BaseAmount()
		ct.Count++
		ct.Net = ct.Net.Add(net)
		ct.VAT = ct.VAT.Add(e.VATAmount)
		ct.Gross = ct.Gross.Add(e.Amount)

		summary.TotalNet = summary.TotalNet.Add(net)
		summary.TotalVAT = summary.TotalVAT.Add(e.VATAmount)
		summary.TotalGross = summary.TotalGross.Add(e.Amount)
	}

	summary.ByCategory = make([]CategoryTotal, 0, len(byCategory))
	for _, c := range expense.Categories() {
		if ct, ok := byCategory[c]; ok {
			summary.ByCategory = append(summary.ByCategory, *ct)
		}
	}

	return summary, nil
}
