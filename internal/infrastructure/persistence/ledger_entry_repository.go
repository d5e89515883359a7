package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository stores the append-only balance journal
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// Append inserts journal lines. Existing lines are never updated.
func (r *GormLedgerEntryRepository) Append(ctx context.Context, entries ...*finance.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.LedgerEntryModel, len(entries))
	for i, e := range entries {
		rows[i] = models.LedgerEntryModelFromDomain(e)
	}
	return translateError(r.db.WithContext(ctx).Create(rows).Error)
}

// FindByHolder lists a holder's journal, newest first unless the filter says otherwise
func (r *GormLedgerEntryRepository) FindByHolder(ctx context.Context, holderType partner.HolderType, holderID uuid.UUID, filter shared.Filter) ([]finance.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	query := r.db.WithContext(ctx).
		Where("holder_type = ? AND holder_id = ?", holderType, holderID).
		Order(orderClause(filter.OrderBy, filter.OrderDir, LedgerEntrySortFields, "created_at"))

	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]finance.LedgerEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

// CountByHolder counts a holder's journal lines
func (r *GormLedgerEntryRepository) CountByHolder(ctx context.Context, holderType partner.HolderType, holderID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("holder_type = ? AND holder_id = ?", holderType, holderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormLedgerEntryRepository implements LedgerEntryRepository
var _ finance.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
