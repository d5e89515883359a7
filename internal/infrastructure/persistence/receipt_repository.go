package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReceiptRepository implements ReceiptRepository using GORM.
// Soft-deleted receipts are invisible to every read.
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

func (r *GormReceiptRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.CustomerReceiptModel{}).Where("customer_receipts.is_deleted = ?", false)
}

func preloadAllocations(db *gorm.DB) *gorm.DB {
	return db.Order("line_no ASC")
}

// FindByID finds an active receipt with its allocations
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CustomerReceipt, error) {
	var model models.CustomerReceiptModel
	if err := r.active(ctx).
		Preload("Allocations", preloadAllocations).
		First(&model, "customer_receipts.id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an active receipt and locks its row
func (r *GormReceiptRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*finance.CustomerReceipt, error) {
	var model models.CustomerReceiptModel
	if err := forUpdate(r.active(ctx)).
		First(&model, "customer_receipts.id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}

	var allocations []models.ReceiptAllocationModel
	if err := r.db.WithContext(ctx).
		Where("receipt_id = ?", id).
		Order("line_no ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	model.Allocations = allocations
	return model.ToDomain(), nil
}

// FindAll finds active receipts matching the filter
func (r *GormReceiptRepository) FindAll(ctx context.Context, filter finance.ReceiptFilter) ([]finance.CustomerReceipt, error) {
	var receiptModels []models.CustomerReceiptModel
	query := r.applyFilter(r.active(ctx), filter).
		Preload("Allocations", preloadAllocations).
		Order(orderClause(filter.OrderBy, filter.OrderDir, ReceiptSortFields, "payment_date"))

	if err := paginate(query, filter.Filter).Find(&receiptModels).Error; err != nil {
		return nil, err
	}

	receipts := make([]finance.CustomerReceipt, len(receiptModels))
	for i := range receiptModels {
		receipts[i] = *receiptModels[i].ToDomain()
	}
	return receipts, nil
}

// Count counts active receipts matching the filter
func (r *GormReceiptRepository) Count(ctx context.Context, filter finance.ReceiptFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.active(ctx), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save upserts the receipt header and rewrites its allocation lines
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *finance.CustomerReceipt) error {
	model := models.CustomerReceiptModelFromDomain(receipt)
	allocations := model.Allocations
	model.Allocations = nil

	db := r.db.WithContext(ctx)
	if err := db.Omit("Allocations").Save(model).Error; err != nil {
		return translateError(err)
	}
	if err := db.Where("receipt_id = ?", receipt.ID).Delete(&models.ReceiptAllocationModel{}).Error; err != nil {
		return err
	}
	if len(allocations) == 0 {
		return nil
	}
	return translateError(db.Create(&allocations).Error)
}

// SoftDelete flags an active receipt deleted. Its allocation rows are kept
// for audit but no longer count toward any sale.
func (r *GormReceiptRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.CustomerReceiptModel{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": at,
			"updated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormReceiptRepository) applyFilter(query *gorm.DB, filter finance.ReceiptFilter) *gorm.DB {
	query = search(query, filter.Search, "customer_receipts.reference_no", "customer_receipts.notes")
	if filter.CustomerID != nil {
		query = query.Where("customer_receipts.customer_id = ?", *filter.CustomerID)
	}
	if filter.SaleID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM receipt_allocations ra WHERE ra.receipt_id = customer_receipts.id AND ra.sale_id = ?)",
			*filter.SaleID,
		)
	}
	if filter.PaymentMode != nil {
		query = query.Where("customer_receipts.payment_mode = ?", *filter.PaymentMode)
	}
	if filter.From != nil {
		query = query.Where("customer_receipts.payment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("customer_receipts.payment_date <= ?", *filter.To)
	}
	return query
}

// Ensure GormReceiptRepository implements ReceiptRepository
var _ finance.ReceiptRepository = (*GormReceiptRepository)(nil)
