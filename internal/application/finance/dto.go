package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/finance"
)

// =============================================================================
// Customer receipt DTOs
// =============================================================================

// AllocationRequest is one (sale, amount) pair in a receipt request
type AllocationRequest struct {
	SaleID uuid.UUID       `json:"sale_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateReceiptRequest represents a request to record a customer receipt
type CreateReceiptRequest struct {
	CustomerID  uuid.UUID           `json:"customer_id" binding:"required"`
	Allocations []AllocationRequest `json:"allocations" binding:"dive"`
	PaymentDate *time.Time          `json:"payment_date"`
	PaymentMode string              `json:"payment_mode" binding:"omitempty,oneof=CASH BANK_TRANSFER UPI CHEQUE OTHER"`
	ReferenceNo string              `json:"reference_no" binding:"max=100"`
	Notes       string              `json:"notes"`
}

// UpdateReceiptRequest replaces the holder, allocations and details of a receipt
type UpdateReceiptRequest struct {
	CustomerID  uuid.UUID           `json:"customer_id" binding:"required"`
	Allocations []AllocationRequest `json:"allocations" binding:"dive"`
	PaymentDate *time.Time          `json:"payment_date"`
	PaymentMode string              `json:"payment_mode" binding:"omitempty,oneof=CASH BANK_TRANSFER UPI CHEQUE OTHER"`
	ReferenceNo string              `json:"reference_no" binding:"max=100"`
	Notes       string              `json:"notes"`
}

// ReceiptAllocationResponse is one receipt line in API responses
type ReceiptAllocationResponse struct {
	SaleID uuid.UUID       `json:"sale_id"`
	Amount decimal.Decimal `json:"amount"`
	LineNo int             `json:"line_no"`
}

// ReceiptResponse represents a customer receipt in API responses
type ReceiptResponse struct {
	ID          uuid.UUID                   `json:"id"`
	CustomerID  uuid.UUID                   `json:"customer_id"`
	Allocations []ReceiptAllocationResponse `json:"allocations"`
	TotalAmount decimal.Decimal             `json:"total_amount"`
	PaymentDate time.Time                   `json:"payment_date"`
	PaymentMode string                      `json:"payment_mode"`
	ReferenceNo string                      `json:"reference_no"`
	Notes       string                      `json:"notes"`
	Version     int                         `json:"version"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// ReceiptListFilter represents filter options for receipt listings
type ReceiptListFilter struct {
	CustomerID  *uuid.UUID `form:"customer_id"`
	SaleID      *uuid.UUID `form:"sale_id"`
	PaymentMode string     `form:"payment_mode" binding:"omitempty,oneof=CASH BANK_TRANSFER UPI CHEQUE OTHER"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToReceiptResponse converts a domain CustomerReceipt to ReceiptResponse
func ToReceiptResponse(r *finance.CustomerReceipt) ReceiptResponse {
	lines := make([]ReceiptAllocationResponse, len(r.Allocations))
	for i, a := range r.Allocations {
		lines[i] = ReceiptAllocationResponse{SaleID: a.SaleID, Amount: a.Amount, LineNo: a.LineNo}
	}
	return ReceiptResponse{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		Allocations: lines,
		TotalAmount: r.TotalAmount,
		PaymentDate: r.PaymentDate,
		PaymentMode: string(r.PaymentMode),
		ReferenceNo: r.ReferenceNo,
		Notes:       r.Notes,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toAllocationInputs(reqs []AllocationRequest) []finance.AllocationInput {
	inputs := make([]finance.AllocationInput, len(reqs))
	for i, a := range reqs {
		inputs[i] = finance.AllocationInput{SaleID: a.SaleID, Amount: a.Amount}
	}
	return inputs
}

func toDetails(date *time.Time, mode, ref, notes string) finance.ReceiptDetails {
	d := finance.ReceiptDetails{
		PaymentMode: finance.PaymentMode(mode),
		ReferenceNo: ref,
		Notes:       notes,
	}
	if date != nil {
		d.PaymentDate = *date
	}
	return d
}

// =============================================================================
// Supplier payment DTOs
// =============================================================================

// CreateSupplierPaymentRequest represents a request to record a supplier payment
type CreateSupplierPaymentRequest struct {
	SupplierID  uuid.UUID       `json:"supplier_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate *time.Time      `json:"payment_date"`
	PaymentMode string          `json:"payment_mode" binding:"omitempty,oneof=CASH BANK_TRANSFER UPI CHEQUE OTHER"`
	ReferenceNo string          `json:"reference_no" binding:"max=100"`
	Notes       string          `json:"notes"`
}

// UpdateSupplierPaymentRequest represents a request to edit a supplier payment
type UpdateSupplierPaymentRequest struct {
	SupplierID  uuid.UUID       `json:"supplier_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate *time.Time      `json:"payment_date"`
	PaymentMode string          `json:"payment_mode" binding:"omitempty,oneof=CASH BANK_TRANSFER UPI CHEQUE OTHER"`
	ReferenceNo string          `json:"reference_no" binding:"max=100"`
	Notes       string          `json:"notes"`
}

// SupplierPaymentResponse represents a supplier payment in API responses
type SupplierPaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	PaymentMode string          `json:"payment_mode"`
	ReferenceNo string          `json:"reference_no"`
	Notes       string          `json:"notes"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SupplierPaymentListFilter represents filter options for supplier payment listings
type SupplierPaymentListFilter struct {
	SupplierID  *uuid.UUID `form:"supplier_id"`
	PaymentMode string     `form:"payment_mode" binding:"omitempty,oneof=CASH BANK_TRANSFER UPI CHEQUE OTHER"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToSupplierPaymentResponse converts a domain SupplierPayment to SupplierPaymentResponse
func ToSupplierPaymentResponse(p *finance.SupplierPayment) SupplierPaymentResponse {
	return SupplierPaymentResponse{
		ID:          p.ID,
		SupplierID:  p.SupplierID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		PaymentMode: string(p.PaymentMode),
		ReferenceNo: p.ReferenceNo,
		Notes:       p.Notes,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// =============================================================================
// Ledger DTOs
// =============================================================================

// LedgerEntryResponse is one journal line in API responses
type LedgerEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	HolderType    string          `json:"holder_type"`
	HolderID      uuid.UUID       `json:"holder_id"`
	SourceType    string          `json:"source_type"`
	SourceID      uuid.UUID       `json:"source_id"`
	Action        string          `json:"action"`
	Delta         decimal.Decimal `json:"delta"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LedgerListFilter pages through a holder's journal
type LedgerListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// ToLedgerEntryResponse converts a domain LedgerEntry to LedgerEntryResponse
func ToLedgerEntryResponse(e *finance.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:            e.ID,
		HolderType:    string(e.HolderType),
		HolderID:      e.HolderID,
		SourceType:    string(e.SourceType),
		SourceID:      e.SourceID,
		Action:        string(e.Action),
		Delta:         e.Delta,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		CreatedAt:     e.CreatedAt,
	}
}

// ReconciliationReport lists every integrity warning found by a reconcile pass
type ReconciliationReport struct {
	CheckedAt        time.Time                  `json:"checked_at"`
	CustomersChecked int                        `json:"customers_checked"`
	SuppliersChecked int                        `json:"suppliers_checked"`
	SalesChecked     int                        `json:"sales_checked"`
	TotalReceivable  decimal.Decimal            `json:"total_receivable"`
	TotalPayable     decimal.Decimal            `json:"total_payable"`
	Warnings         []finance.IntegrityWarning `json:"warnings"`
}

// Consistent reports whether no warnings were found
func (r *ReconciliationReport) Consistent() bool {
	return len(r.Warnings) == 0
}
