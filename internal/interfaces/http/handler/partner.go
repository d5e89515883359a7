package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/tamarind/backend/internal/application/finance"
	partnerapp "github.com/tamarind/backend/internal/application/partner"
	"github.com/tamarind/backend/internal/domain/partner"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
	ledgerService   *financeapp.LedgerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService, ledgerService *financeapp.LedgerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		ledgerService:   ledgerService,
	}
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Description  Register a customer. The opening balance seeds the outstanding balance.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client supplied deduplication key"
// @Param        request body partnerapp.CreateHolderRequest true "Customer creation request"
// @Success      201 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /partner/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateHolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// GetByID godoc
// @ID           getCustomerById
// @Summary      Get customer by ID
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /partner/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        search query string false "Search by code or name"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(code)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(asc)
// @Success      200 {object} APIResponse[[]partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /partner/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partnerapp.HolderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize, 20)

	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Description  Update profile fields. The outstanding balance is owned by the ledger and cannot be set here.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.UpdateHolderRequest true "Customer update request"
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /partner/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "customer")
	if !ok {
		return
	}

	var req partnerapp.UpdateHolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Ledger godoc
// @ID           getCustomerLedger
// @Summary      Get a customer's ledger
// @Description  Journal of balance adjustments for the customer, newest first
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(50) maximum(200)
// @Success      200 {object} APIResponse[[]financeapp.LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /partner/customers/{id}/ledger [get]
func (h *CustomerHandler) Ledger(c *gin.Context) {
	holderLedger(c, &h.BaseHandler, h.ledgerService, partner.HolderTypeCustomer, "customer")
}

// SupplierHandler handles supplier API endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
	ledgerService   *financeapp.LedgerService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService, ledgerService *financeapp.LedgerService) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		ledgerService:   ledgerService,
	}
}

// Create godoc
// @ID           createSupplier
// @Summary      Create a supplier
// @Description  Register a supplier. The opening balance seeds the outstanding balance.
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client supplied deduplication key"
// @Param        request body partnerapp.CreateHolderRequest true "Supplier creation request"
// @Success      201 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /partner/suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req partnerapp.CreateHolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, supplier)
}

// GetByID godoc
// @ID           getSupplierById
// @Summary      Get supplier by ID
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /partner/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "supplier")
	if !ok {
		return
	}

	supplier, err := h.supplierService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// List godoc
// @ID           listSuppliers
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Param        search query string false "Search by code or name"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(code)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(asc)
// @Success      200 {object} APIResponse[[]partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /partner/suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	var filter partnerapp.HolderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize, 20)

	suppliers, total, err := h.supplierService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, suppliers, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateSupplier
// @Summary      Update a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body partnerapp.UpdateHolderRequest true "Supplier update request"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /partner/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "supplier")
	if !ok {
		return
	}

	var req partnerapp.UpdateHolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Ledger godoc
// @ID           getSupplierLedger
// @Summary      Get a supplier's ledger
// @Description  Journal of balance adjustments for the supplier, newest first
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(50) maximum(200)
// @Success      200 {object} APIResponse[[]financeapp.LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /partner/suppliers/{id}/ledger [get]
func (h *SupplierHandler) Ledger(c *gin.Context) {
	holderLedger(c, &h.BaseHandler, h.ledgerService, partner.HolderTypeSupplier, "supplier")
}

func holderLedger(c *gin.Context, h *BaseHandler, svc *financeapp.LedgerService, holderType partner.HolderType, entity string) {
	id, ok := h.parseID(c, "id", entity)
	if !ok {
		return
	}

	var filter financeapp.LedgerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize, 50)

	entries, total, err := svc.GetHolderLedger(c.Request.Context(), holderType, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}
