package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamarind/backend/internal/domain/partner"
)

// =============================================================================
// Holder DTOs (shared by customers and suppliers)
// =============================================================================

// CreateHolderRequest represents a request to create a customer or supplier
type CreateHolderRequest struct {
	Code           string           `json:"code" binding:"required,min=1,max=50"`
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Phone          string           `json:"phone" binding:"max=50"`
	Address        string           `json:"address" binding:"max=500"`
	Notes          string           `json:"notes"`
	OpeningBalance *decimal.Decimal `json:"opening_balance"`
}

// UpdateHolderRequest updates descriptive fields. Nil fields are left unchanged.
// Balances cannot be written here.
type UpdateHolderRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Notes   *string `json:"notes"`
}

// HolderListFilter represents filter options for customer and supplier lists
type HolderListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	Address            string          `json:"address"`
	Notes              string          `json:"notes"`
	OpeningBalance     decimal.Decimal `json:"opening_balance"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Version            int             `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	Address            string          `json:"address"`
	Notes              string          `json:"notes"`
	OpeningBalance     decimal.Decimal `json:"opening_balance"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	InCredit           bool            `json:"in_credit"`
	Version            int             `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                 c.ID,
		Code:               c.Code,
		Name:               c.Name,
		Phone:              c.Phone,
		Address:            c.Address,
		Notes:              c.Notes,
		OpeningBalance:     c.OpeningBalance,
		OutstandingBalance: c.OutstandingBalance,
		Version:            c.Version,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:                 s.ID,
		Code:               s.Code,
		Name:               s.Name,
		Phone:              s.Phone,
		Address:            s.Address,
		Notes:              s.Notes,
		OpeningBalance:     s.OpeningBalance,
		OutstandingBalance: s.OutstandingBalance,
		InCredit:           s.IsInCredit(),
		Version:            s.Version,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// ToSupplierResponses converts a slice of suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out
}

func (r CreateHolderRequest) profile() partner.Profile {
	return partner.Profile{
		Code:    r.Code,
		Name:    r.Name,
		Phone:   r.Phone,
		Address: r.Address,
		Notes:   r.Notes,
	}
}

func (r CreateHolderRequest) openingBalance() decimal.Decimal {
	if r.OpeningBalance == nil {
		return decimal.Zero
	}
	return *r.OpeningBalance
}

// apply returns the updated profile fields, falling back to current values
func (r UpdateHolderRequest) apply(name, phone, address, notes string) (string, string, string, string) {
	if r.Name != nil {
		name = *r.Name
	}
	if r.Phone != nil {
		phone = *r.Phone
	}
	if r.Address != nil {
		address = *r.Address
	}
	if r.Notes != nil {
		notes = *r.Notes
	}
	return name, phone, address, notes
}

func (f *HolderListFilter) defaults() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.OrderBy == "" {
		f.OrderBy = "code"
	}
	if f.OrderDir == "" {
		f.OrderDir = "asc"
	}
}
