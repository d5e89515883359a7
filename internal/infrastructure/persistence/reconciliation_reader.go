package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/finance"
	"github.com/tamarind/backend/internal/domain/partner"
	"gorm.io/gorm"
)

const customerBalancesSQL = `
SELECT c.id AS holder_id, c.code AS code, c.outstanding_balance AS stored,
	c.opening_balance
		+ COALESCE((SELECT SUM(s.total_amount) FROM sales s WHERE s.customer_id = c.id), 0)
		- COALESCE((SELECT SUM(r.total_amount) FROM customer_receipts r
			WHERE r.customer_id = c.id AND r.is_deleted = ?), 0) AS expected
FROM customers c
ORDER BY c.code`

const supplierBalancesSQL = `
SELECT s.id AS holder_id, s.code AS code, s.outstanding_balance AS stored,
	s.opening_balance
		+ COALESCE((SELECT SUM(p.total_amount) FROM purchases p WHERE p.supplier_id = s.id), 0)
		- COALESCE((SELECT SUM(sp.amount) FROM supplier_payments sp WHERE sp.supplier_id = s.id), 0) AS expected
FROM suppliers s
ORDER BY s.code`

const salePaidSQL = `
SELECT sa.id AS sale_id, sa.amount_paid AS stored,
	COALESCE((SELECT SUM(ra.amount) FROM receipt_allocations ra
		JOIN customer_receipts r ON r.id = ra.receipt_id
		WHERE ra.sale_id = sa.id AND r.is_deleted = ?), 0) AS allocated
FROM sales sa
ORDER BY sa.sale_date, sa.sale_number`

// GormReconciliationReader recomputes balances from the source documents
type GormReconciliationReader struct {
	db *gorm.DB
}

// NewGormReconciliationReader creates a new GormReconciliationReader
func NewGormReconciliationReader(db *gorm.DB) *GormReconciliationReader {
	return &GormReconciliationReader{db: db}
}

type balanceRow struct {
	HolderID uuid.UUID
	Code     string
	Stored   decimal.Decimal
	Expected decimal.Decimal
}

// CustomerBalances returns every customer's stored and document-derived balance
func (r *GormReconciliationReader) CustomerBalances(ctx context.Context) ([]finance.BalanceSnapshot, error) {
	return r.balances(ctx, partner.HolderTypeCustomer, customerBalancesSQL, false)
}

// SupplierBalances returns every supplier's stored and document-derived balance
func (r *GormReconciliationReader) SupplierBalances(ctx context.Context) ([]finance.BalanceSnapshot, error) {
	return r.balances(ctx, partner.HolderTypeSupplier, supplierBalancesSQL)
}

func (r *GormReconciliationReader) balances(ctx context.Context, holderType partner.HolderType, query string, args ...any) ([]finance.BalanceSnapshot, error) {
	var rows []balanceRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.BalanceSnapshot, len(rows))
	for i, row := range rows {
		out[i] = finance.BalanceSnapshot{
			HolderType: holderType,
			HolderID:   row.HolderID,
			Code:       row.Code,
			Stored:     row.Stored,
			Expected:   row.Expected,
		}
	}
	return out, nil
}

// SalePaidAmounts returns each sale's stored amount paid next to its active allocations
func (r *GormReconciliationReader) SalePaidAmounts(ctx context.Context) ([]finance.SalePaidSnapshot, error) {
	var rows []finance.SalePaidSnapshot
	if err := r.db.WithContext(ctx).Raw(salePaidSQL, false).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure GormReconciliationReader implements ReconciliationReader
var _ finance.ReconciliationReader = (*GormReconciliationReader)(nil)
