package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/tamarind/backend/internal/application/trade"
)

// SaleHandler handles sale API endpoints
type SaleHandler struct {
	BaseHandler
	saleService *tradeapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *tradeapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create godoc
// @ID           createSale
// @Summary      Record a sale
// @Description  Record a sale and raise the customer's outstanding balance by its total
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client supplied deduplication key"
// @Param        request body tradeapp.CreateSaleRequest true "Sale creation request"
// @Success      201 {object} APIResponse[tradeapp.SaleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /trade/sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sale, err := h.saleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// GetByID godoc
// @ID           getSaleById
// @Summary      Get sale by ID
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SaleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /trade/sales/{id} [get]
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "sale")
	if !ok {
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// List godoc
// @ID           listSales
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        customer_id query string false "Filter by customer" format(uuid)
// @Param        unpaid_only query bool false "Only sales with an outstanding amount"
// @Param        from query string false "Sale date from (YYYY-MM-DD)"
// @Param        to query string false "Sale date to (YYYY-MM-DD)"
// @Param        search query string false "Search by sale number"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(sale_date)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]tradeapp.SaleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /trade/sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var filter tradeapp.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize, 20)

	sales, total, err := h.saleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// Delete godoc
// @ID           deleteSale
// @Summary      Delete a sale
// @Description  Delete an unpaid sale and reverse its effect on the customer balance. Sales with receipts allocated cannot be deleted.
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /trade/sales/{id} [delete]
func (h *SaleHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "sale")
	if !ok {
		return
	}

	if err := h.saleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PurchaseHandler handles purchase API endpoints
type PurchaseHandler struct {
	BaseHandler
	purchaseService *tradeapp.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *tradeapp.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create godoc
// @ID           createPurchase
// @Summary      Record a purchase
// @Description  Record a purchase lot and raise the supplier's outstanding balance by its total
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client supplied deduplication key"
// @Param        request body tradeapp.CreatePurchaseRequest true "Purchase creation request"
// @Success      201 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /trade/purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req tradeapp.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, purchase)
}

// GetByID godoc
// @ID           getPurchaseById
// @Summary      Get purchase by ID
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /trade/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "purchase")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, purchase)
}

// List godoc
// @ID           listPurchases
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Param        supplier_id query string false "Filter by supplier" format(uuid)
// @Param        from query string false "Purchase date from (YYYY-MM-DD)"
// @Param        to query string false "Purchase date to (YYYY-MM-DD)"
// @Param        search query string false "Search by purchase number"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(purchase_date)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]tradeapp.PurchaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /trade/purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	var filter tradeapp.PurchaseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize, 20)

	purchases, total, err := h.purchaseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, purchases, total, filter.Page, filter.PageSize)
}

// Delete godoc
// @ID           deletePurchase
// @Summary      Delete a purchase
// @Description  Delete a purchase and reverse its effect on the supplier balance
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /trade/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "purchase")
	if !ok {
		return
	}

	if err := h.purchaseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
