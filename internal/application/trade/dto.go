package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/trade"
)

// ==================== Sale DTOs ====================

// CreateSaleRequest represents a request to record a sale
type CreateSaleRequest struct {
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	SaleNumber string          `json:"sale_number" binding:"required,min=1,max=50"`
	SaleDate   *time.Time      `json:"sale_date"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Rate       decimal.Decimal `json:"rate" binding:"required"`
	Notes      string          `json:"notes"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	SaleNumber  string          `json:"sale_number"`
	SaleDate    time.Time       `json:"sale_date"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	IsFullyPaid bool            `json:"is_fully_paid"`
	Notes       string          `json:"notes"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SaleListFilter represents filter options for sale listings
type SaleListFilter struct {
	CustomerID *uuid.UUID `form:"customer_id"`
	UnpaidOnly bool       `form:"unpaid_only"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *trade.Sale) SaleResponse {
	return SaleResponse{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		SaleNumber:  s.SaleNumber,
		SaleDate:    s.SaleDate,
		Quantity:    s.Quantity,
		Rate:        s.Rate,
		TotalAmount: s.TotalAmount,
		AmountPaid:  s.AmountPaid,
		Outstanding: s.Outstanding(),
		IsFullyPaid: s.IsFullyPaid(),
		Notes:       s.Notes,
		Version:     s.Version,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ==================== Purchase DTOs ====================

// CreatePurchaseRequest represents a request to record a purchase lot
type CreatePurchaseRequest struct {
	SupplierID     uuid.UUID       `json:"supplier_id" binding:"required"`
	PurchaseNumber string          `json:"purchase_number" binding:"required,min=1,max=50"`
	PurchaseDate   *time.Time      `json:"purchase_date"`
	GrossWeight    decimal.Decimal `json:"gross_weight" binding:"required"`
	NetWeight      decimal.Decimal `json:"net_weight" binding:"required"`
	Rate           decimal.Decimal `json:"rate" binding:"required"`
	Notes          string          `json:"notes"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID                uuid.UUID       `json:"id"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	PurchaseNumber    string          `json:"purchase_number"`
	PurchaseDate      time.Time       `json:"purchase_date"`
	GrossWeight       decimal.Decimal `json:"gross_weight"`
	NetWeight         decimal.Decimal `json:"net_weight"`
	Rate              decimal.Decimal `json:"rate"`
	WeightLossPercent decimal.Decimal `json:"weight_loss_percent"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PurchaseListFilter represents filter options for purchase listings
type PurchaseListFilter struct {
	SupplierID *uuid.UUID `form:"supplier_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToPurchaseResponse converts a domain Purchase to PurchaseResponse
func ToPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:                p.ID,
		SupplierID:        p.SupplierID,
		PurchaseNumber:    p.PurchaseNumber,
		PurchaseDate:      p.PurchaseDate,
		GrossWeight:       p.GrossWeight,
		NetWeight:         p.NetWeight,
		Rate:              p.Rate,
		WeightLossPercent: p.WeightLossPercent,
		TotalAmount:       p.TotalAmount,
		Notes:             p.Notes,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
