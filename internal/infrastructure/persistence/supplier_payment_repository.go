package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSupplierPaymentRepository implements SupplierPaymentRepository using GORM
type GormSupplierPaymentRepository struct {
	db *gorm.DB
}

// NewGormSupplierPaymentRepository creates a new GormSupplierPaymentRepository
func NewGormSupplierPaymentRepository(db *gorm.DB) *GormSupplierPaymentRepository {
	return &GormSupplierPaymentRepository{db: db}
}

// FindByID finds a supplier payment by its ID
func (r *GormSupplierPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.SupplierPayment, error) {
	var model models.SupplierPaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a supplier payment and locks its row
func (r *GormSupplierPaymentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*finance.SupplierPayment, error) {
	var model models.SupplierPaymentModel
	if err := forUpdate(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds supplier payments matching the filter
func (r *GormSupplierPaymentRepository) FindAll(ctx context.Context, filter finance.SupplierPaymentFilter) ([]finance.SupplierPayment, error) {
	var paymentModels []models.SupplierPaymentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SupplierPaymentModel{}), filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, SupplierPaymentSortFields, "payment_date"))

	if err := paginate(query, filter.Filter).Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]finance.SupplierPayment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = *paymentModels[i].ToDomain()
	}
	return payments, nil
}

// Count counts supplier payments matching the filter
func (r *GormSupplierPaymentRepository) Count(ctx context.Context, filter finance.SupplierPaymentFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SupplierPaymentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a supplier payment
func (r *GormSupplierPaymentRepository) Save(ctx context.Context, payment *finance.SupplierPayment) error {
	return translateError(r.db.WithContext(ctx).Save(models.SupplierPaymentModelFromDomain(payment)).Error)
}

// Delete removes a supplier payment
func (r *GormSupplierPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SupplierPaymentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormSupplierPaymentRepository) applyFilter(query *gorm.DB, filter finance.SupplierPaymentFilter) *gorm.DB {
	query = search(query, filter.Search, "reference_no", "notes")
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.PaymentMode != nil {
		query = query.Where("payment_mode = ?", *filter.PaymentMode)
	}
	if filter.From != nil {
		query = query.Where("payment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("payment_date <= ?", *filter.To)
	}
	return query
}

// Ensure GormSupplierPaymentRepository implements SupplierPaymentRepository
var _ finance.SupplierPaymentRepository = (*GormSupplierPaymentRepository)(nil)
