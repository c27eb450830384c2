package pettycash

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SortChronological orders transactions oldest-first using the ledger's
// total order (TransactionDate, CreatedAt, ID).
func SortChronological(txs []*Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Before(txs[j])
	})
}

// Replay recomputes BalanceBefore/BalanceAfter for a chronologically
// ascending run of transactions, starting from balanceBefore. This is the
// suffix-recomputation step after a deletion: removing an entry invalidates
// every later running balance of that employee, so the remaining suffix is
// replayed from the predecessor's balance. Returns the final balance.
func Replay(balanceBefore decimal.Decimal, txs []*Transaction) decimal.Decimal {
	balance := balanceBefore
	for _, tx := range txs {
		tx.BalanceBefore = balance
		balance = applySigned(balance, tx.Type, tx.Amount)
		tx.BalanceAfter = balance
		tx.UpdatedAt = time.Now()
	}
	return balance
}

// CurrentBalance returns the BalanceAfter of the chronologically last
// transaction, or zero for an empty ledger.
func CurrentBalance(txs []*Transaction) decimal.Decimal {
	if len(txs) == 0 {
		return decimal.Zero
	}
	last := txs[0]
	for _, tx := range txs[1:] {
		if last.Before(tx) {
			last = tx
		}
	}
	return last.BalanceAfter
}
