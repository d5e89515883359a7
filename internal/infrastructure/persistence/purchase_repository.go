package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/domain/trade"
	"github.com/tamarind/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase by its ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	var model models.PurchaseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a purchase and locks its row
func (r *GormPurchaseRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	var model models.PurchaseModel
	if err := forUpdate(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all purchases matching the filter
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter trade.PurchaseFilter) ([]trade.Purchase, error) {
	var purchaseModels []models.PurchaseModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseModel{}), filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, PurchaseSortFields, "purchase_date"))

	if err := paginate(query, filter.Filter).Find(&purchaseModels).Error; err != nil {
		return nil, err
	}

	purchases := make([]trade.Purchase, len(purchaseModels))
	for i := range purchaseModels {
		purchases[i] = *purchaseModels[i].ToDomain()
	}
	return purchases, nil
}

// Count counts purchases matching the filter
func (r *GormPurchaseRepository) Count(ctx context.Context, filter trade.PurchaseFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks if the purchase number is taken
func (r *GormPurchaseRepository) ExistsByNumber(ctx context.Context, purchaseNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PurchaseModel{}).
		Where("purchase_number = ?", purchaseNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a purchase
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	return translateError(r.db.WithContext(ctx).Save(models.PurchaseModelFromDomain(purchase)).Error)
}

// Delete removes a purchase
func (r *GormPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PurchaseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormPurchaseRepository) applyFilter(query *gorm.DB, filter trade.PurchaseFilter) *gorm.DB {
	query = search(query, filter.Search, "purchase_number", "notes")
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.From != nil {
		query = query.Where("purchase_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("purchase_date <= ?", *filter.To)
	}
	return query
}

// Ensure GormPurchaseRepository implements PurchaseRepository
var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
