package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitecost/backend/internal/domain/finance"
	"github.com/sitecost/backend/internal/domain/shared"
	"github.com/sitecost/backend/internal/infrastructure/persistence/models"
)

// GormReceivedPaymentRepository implements ReceivedPaymentRepository using GORM
type GormReceivedPaymentRepository struct {
	db *gorm.DB
}

// NewGormReceivedPaymentRepository creates a new GormReceivedPaymentRepository
func NewGormReceivedPaymentRepository(db *gorm.DB) *GormReceivedPaymentRepository {
	return &GormReceivedPaymentRepository{db: db}
}

// FindByID finds a received payment by ID
func (r *GormReceivedPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.ReceivedPayment, error) {
	var model models.ReceivedPaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a received payment by its payment number
func (r *GormReceivedPaymentRepository) FindByNumber(ctx context.Context, paymentNumber string) (*finance.ReceivedPayment, error) {
	var model models.ReceivedPaymentModel
	if err := r.db.WithContext(ctx).
		Where("payment_number = ?", paymentNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists received payments with filtering
func (r *GormReceivedPaymentRepository) FindAll(ctx context.Context, filter finance.PaymentFilter) ([]*finance.ReceivedPayment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReceivedPaymentModel{})

	if filter.PayerName != "" {
		query = query.Where("payer_name ILIKE ?", "%"+filter.PayerName+"%")
	}
	if filter.DateFrom != nil {
		query = query.Where("payment_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("payment_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("payment_date DESC, created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []models.ReceivedPaymentModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	payments := make([]*finance.ReceivedPayment, len(rows))
	for i := range rows {
		payments[i] = rows[i].ToDomain()
	}
	return payments, total, nil
}

// Save creates or updates a received payment
func (r *GormReceivedPaymentRepository) Save(ctx context.Context, payment *finance.ReceivedPayment) error {
	model := models.ReceivedPaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a received payment
func (r *GormReceivedPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReceivedPaymentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GeneratePaymentNumber generates the next sequential payment number,
// scoped to the current month (RCV-YYYYMM-NNNNN)
func (r *GormReceivedPaymentRepository) GeneratePaymentNumber(ctx context.Context) (string, error) {
	var count int64
	yearMonth := time.Now().Format("200601")

	if err := r.db.WithContext(ctx).Model(&models.ReceivedPaymentModel{}).
		Where("payment_number LIKE ?", fmt.Sprintf("RCV-%s-%%", yearMonth)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("RCV-%s-%05d", yearMonth, count+1), nil
}

// Ensure GormReceivedPaymentRepository implements ReceivedPaymentRepository
var _ finance.ReceivedPaymentRepository = (*GormReceivedPaymentRepository)(nil)
