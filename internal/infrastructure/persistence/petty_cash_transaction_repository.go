package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sitecost/backend/internal/domain/pettycash"
	"github.com/sitecost/backend/internal/domain/shared"
	"github.com/sitecost/backend/internal/infrastructure/persistence/models"
)

// chronoOrder is the total order of ledger entries within one employee's
// account. CreatedAt and ID break ties between entries sharing a
// transaction date, so replay always walks a deterministic sequence.
const (
	chronoOrderAsc  = "transaction_date ASC, created_at ASC, id ASC"
	chronoOrderDesc = "transaction_date DESC, created_at DESC, id DESC"
)

// GormPettyCashTransactionRepository implements pettycash.TransactionRepository using GORM
type GormPettyCashTransactionRepository struct {
	db *gorm.DB
}

// NewGormPettyCashTransactionRepository creates a new GormPettyCashTransactionRepository
func NewGormPettyCashTransactionRepository(db *gorm.DB) *GormPettyCashTransactionRepository {
	return &GormPettyCashTransactionRepository{db: db}
}

// Create persists a new ledger transaction
func (r *GormPettyCashTransactionRepository) Create(ctx context.Context, tx *pettycash.Transaction) error {
	model := models.PettyCashTransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a transaction by ID
func (r *GormPettyCashTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*pettycash.Transaction, error) {
	var model models.PettyCashTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmployee lists an employee's transactions newest-first with filtering
func (r *GormPettyCashTransactionRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID, filter pettycash.Filter) ([]*pettycash.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PettyCashTransactionModel{}).
		Where("employee_id = ?", employeeID)

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.RefType != nil {
		query = query.Where("reference_type = ?", *filter.RefType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(chronoOrderDesc)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []models.PettyCashTransactionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return toDomainTransactions(rows), total, nil
}

// FindRecentByEmployee returns the most recent limit transactions, newest-first
func (r *GormPettyCashTransactionRepository) FindRecentByEmployee(ctx context.Context, employeeID uuid.UUID, limit int) ([]*pettycash.Transaction, error) {
	var rows []models.PettyCashTransactionModel
	if err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order(chronoOrderDesc).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(rows), nil
}

// FindSuffix returns the employee's transactions strictly after the given
// one in chronological order, oldest-first. The given transaction itself
// need not be persisted yet; only its ordering fields are consulted.
func (r *GormPettyCashTransactionRepository) FindSuffix(ctx context.Context, after *pettycash.Transaction) ([]*pettycash.Transaction, error) {
	var rows []models.PettyCashTransactionModel
	if err := r.db.WithContext(ctx).
		Where("employee_id = ? AND id <> ?", after.EmployeeID, after.GetID()).
		Where(
			"transaction_date > ? OR (transaction_date = ? AND (created_at > ? OR (created_at = ? AND id > ?)))",
			after.TransactionDate, after.TransactionDate,
			after.CreatedAt, after.CreatedAt, after.GetID(),
		).
		Order(chronoOrderAsc).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(rows), nil
}

// FindByReference finds the transaction carrying the given provenance tag
// and back-reference
func (r *GormPettyCashTransactionRepository) FindByReference(ctx context.Context, refType pettycash.ReferenceType, referenceID string) (*pettycash.Transaction, error) {
	var model models.PettyCashTransactionModel
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, referenceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// LastByEmployee returns the chronologically last transaction for an employee
func (r *GormPettyCashTransactionRepository) LastByEmployee(ctx context.Context, employeeID uuid.UUID) (*pettycash.Transaction, error) {
	var model models.PettyCashTransactionModel
	if err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order(chronoOrderDesc).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SumAmountByType sums Amount over an employee's transactions of one type
func (r *GormPettyCashTransactionRepository) SumAmountByType(ctx context.Context, employeeID uuid.UUID, txType pettycash.TransactionType) (decimal.Decimal, error) {
	return r.sumAmount(ctx, employeeID, "type = ?", string(txType))
}

// SumAmountByReferenceType sums Amount over an employee's transactions with
// one reference type
func (r *GormPettyCashTransactionRepository) SumAmountByReferenceType(ctx context.Context, employeeID uuid.UUID, refType pettycash.ReferenceType) (decimal.Decimal, error) {
	return r.sumAmount(ctx, employeeID, "reference_type = ?", string(refType))
}

func (r *GormPettyCashTransactionRepository) sumAmount(ctx context.Context, employeeID uuid.UUID, cond string, arg string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.PettyCashTransactionModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("employee_id = ?", employeeID).
		Where(cond, arg).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// UpdateBalances persists recomputed BalanceBefore/BalanceAfter values for
// a replayed suffix. All rows are written in one database transaction so a
// partially rewritten chain is never visible.
func (r *GormPettyCashTransactionRepository) UpdateBalances(ctx context.Context, txs []*pettycash.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		for _, t := range txs {
			result := dbTx.Model(&models.PettyCashTransactionModel{}).
				Where("id = ?", t.GetID()).
				Updates(map[string]interface{}{
					"balance_before": t.BalanceBefore,
					"balance_after":  t.BalanceAfter,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrNotFound
			}
		}
		return nil
	})
}

// Delete removes a transaction
func (r *GormPettyCashTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PettyCashTransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListEmployeeIDs returns the IDs of all employees with at least one transaction
func (r *GormPettyCashTransactionRepository) ListEmployeeIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.PettyCashTransactionModel{}).
		Distinct("employee_id").
		Order("employee_id ASC").
		Pluck("employee_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func toDomainTransactions(rows []models.PettyCashTransactionModel) []*pettycash.Transaction {
	txs := make([]*pettycash.Transaction, len(rows))
	for i := range rows {
		txs[i] = rows[i].ToDomain()
	}
	return txs
}

// Ensure GormPettyCashTransactionRepository implements TransactionRepository
var _ pettycash.TransactionRepository = (*GormPettyCashTransactionRepository)(nil)
