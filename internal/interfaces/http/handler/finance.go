package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/tamarind/backend/internal/application/finance"
)

// ReceiptHandler handles customer receipt API endpoints
type ReceiptHandler struct {
	BaseHandler
	receiptService *financeapp.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *financeapp.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Create godoc
// @ID           createReceipt
// @Summary      Record a customer receipt
// @Description  Allocate a payment across one or more sales of the customer. Every allocation is applied or none is.
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client supplied deduplication key"
// @Param        request body financeapp.CreateReceiptRequest true "Receipt creation request"
// @Success      201 {object} APIResponse[financeapp.ReceiptResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /finance/receipts [post]
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req financeapp.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, receipt)
}

// GetByID godoc
// @ID           getReceiptById
// @Summary      Get receipt by ID
// @Tags         receipts
// @Produce      json
// @Param        id path string true "Receipt ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.ReceiptResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /finance/receipts/{id} [get]
func (h *ReceiptHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "receipt")
	if !ok {
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// List godoc
// @ID           listReceipts
// @Summary      List customer receipts
// @Description  Deleted receipts are never listed
// @Tags         receipts
// @Produce      json
// @Param        customer_id query string false "Filter by customer" format(uuid)
// @Param        sale_id query string false "Only receipts allocated to this sale" format(uuid)
// @Param        payment_mode query string false "Filter by payment mode" Enums(CASH, BANK_TRANSFER, UPI, CHEQUE, OTHER)
// @Param        from query string false "Payment date from (YYYY-MM-DD)"
// @Param        to query string false "Payment date to (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(payment_date)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]financeapp.ReceiptResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /finance/receipts [get]
func (h *ReceiptHandler) List(c *gin.Context) {
	var filter financeapp.ReceiptListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize, 20)

	receipts, total, err := h.receiptService.ListReceipts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, receipts, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateReceipt
// @Summary      Update a customer receipt
// @Description  Revert the stored allocations and apply the new ones in one transaction. The customer may change.
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        id path string true "Receipt ID" format(uuid)
// @Param        request body financeapp.UpdateReceiptRequest true "Receipt update request"
// @Success      200 {object} APIResponse[financeapp.ReceiptResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /finance/receipts/{id} [put]
func (h *ReceiptHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "receipt")
	if !ok {
		return
	}

	var req financeapp.UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	receipt, err := h.receiptService.UpdateReceipt(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Delete godoc
// @ID           deleteReceipt
// @Summary      Delete a customer receipt
// @Description  Revert the receipt's allocations and soft-delete it
// @Tags         receipts
// @Produce      json
// @Param        id path string true "Receipt ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /finance/receipts/{id} [delete]
func (h *ReceiptHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "receipt")
	if !ok {
		return
	}

	if err := h.receiptService.DeleteReceipt(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SupplierPaymentHandler handles supplier payment API endpoints
type SupplierPaymentHandler struct {
	BaseHandler
	paymentService *financeapp.SupplierPaymentService
}

// NewSupplierPaymentHandler creates a new SupplierPaymentHandler
func NewSupplierPaymentHandler(paymentService *financeapp.SupplierPaymentService) *SupplierPaymentHandler {
	return &SupplierPaymentHandler{paymentService: paymentService}
}

// Create godoc
// @ID           createSupplierPayment
// @Summary      Record a supplier payment
// @Description  Reduce the supplier's payable balance. The balance may go negative (supplier in credit).
// @Tags         supplier-payments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client supplied deduplication key"
// @Param        request body financeapp.CreateSupplierPaymentRequest true "Supplier payment request"
// @Success      201 {object} APIResponse[financeapp.SupplierPaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /finance/supplier-payments [post]
func (h *SupplierPaymentHandler) Create(c *gin.Context) {
	var req financeapp.CreateSupplierPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	payment, err := h.paymentService.CreateSupplierPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payment)
}

// GetByID godoc
// @ID           getSupplierPaymentById
// @Summary      Get supplier payment by ID
// @Tags         supplier-payments
// @Produce      json
// @Param        id path string true "Supplier payment ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.SupplierPaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /finance/supplier-payments/{id} [get]
func (h *SupplierPaymentHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "supplier payment")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetSupplierPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// List godoc
// @ID           listSupplierPayments
// @Summary      List supplier payments
// @Tags         supplier-payments
// @Produce      json
// @Param        supplier_id query string false "Filter by supplier" format(uuid)
// @Param        payment_mode query string false "Filter by payment mode" Enums(CASH, BANK_TRANSFER, UPI, CHEQUE, OTHER)
// @Param        from query string false "Payment date from (YYYY-MM-DD)"
// @Param        to query string false "Payment date to (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(payment_date)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]financeapp.SupplierPaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /finance/supplier-payments [get]
func (h *SupplierPaymentHandler) List(c *gin.Context) {
	var filter financeapp.SupplierPaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize, 20)

	payments, total, err := h.paymentService.ListSupplierPayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateSupplierPayment
// @Summary      Update a supplier payment
// @Description  Restore the old amount to the old supplier and apply the new amount to the new supplier in one transaction
// @Tags         supplier-payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier payment ID" format(uuid)
// @Param        request body financeapp.UpdateSupplierPaymentRequest true "Supplier payment update request"
// @Success      200 {object} APIResponse[financeapp.SupplierPaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /finance/supplier-payments/{id} [put]
func (h *SupplierPaymentHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "supplier payment")
	if !ok {
		return
	}

	var req financeapp.UpdateSupplierPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	payment, err := h.paymentService.UpdateSupplierPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Delete godoc
// @ID           deleteSupplierPayment
// @Summary      Delete a supplier payment
// @Description  Restore the payment amount to the supplier's balance and delete the payment
// @Tags         supplier-payments
// @Produce      json
// @Param        id path string true "Supplier payment ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /finance/supplier-payments/{id} [delete]
func (h *SupplierPaymentHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "supplier payment")
	if !ok {
		return
	}

	if err := h.paymentService.DeleteSupplierPayment(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// LedgerHandler exposes ledger maintenance endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *financeapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *financeapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// Reconcile godoc
// @ID           reconcileLedger
// @Summary      Reconcile balances
// @Description  Recompute every sale's amount paid and every partner balance from source records and report drift. Nothing is corrected.
// @Tags         ledger
// @Produce      json
// @Success      200 {object} APIResponse[financeapp.ReconciliationReport]
// @Failure      500 {object} ErrorResponse
// @Router       /finance/ledger/reconcile [post]
func (h *LedgerHandler) Reconcile(c *gin.Context) {
	report, err := h.ledgerService.Reconcile(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}
