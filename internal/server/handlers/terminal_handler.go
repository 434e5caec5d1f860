package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mbdiagne/comptoir/internal/domain/models"
	"github.com/mbdiagne/comptoir/internal/service/pos"
	"github.com/mbdiagne/comptoir/pkg/clients/backend"
)

// TerminalHandler adapts the POS service to HTTP.
type TerminalHandler struct {
	svc    *pos.Service
	logger *zap.Logger
}

// NewTerminalHandler constructs the HTTP handler adapter.
func NewTerminalHandler(svc *pos.Service, logger *zap.Logger) *TerminalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TerminalHandler{svc: svc, logger: logger}
}

// ListProducts serves the cached catalog.
func (h *TerminalHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.svc.Products()})
}

// ListCustomers serves the cached customer directory.
func (h *TerminalHandler) ListCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"customers": h.svc.Customers()})
}

// CreateCustomer registers a new customer with the backend.
func (h *TerminalHandler) CreateCustomer(c *gin.Context) {
	var req backend.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	created, err := h.svc.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// StockSnapshot serves the whole cached stock list.
func (h *TerminalHandler) StockSnapshot(c *gin.Context) {
	records, refreshedAt := h.svc.StockSnapshot()
	c.JSON(http.StatusOK, gin.H{"records": records, "refreshedAt": refreshedAt})
}

// ProductStock serves the total and per-location stock for one product.
func (h *TerminalHandler) ProductStock(c *gin.Context) {
	total, locations := h.svc.Stock(c.Param("productID"))
	c.JSON(http.StatusOK, gin.H{"total": total, "locations": locations})
}

// RefreshStock forces an on-demand ledger refresh.
func (h *TerminalHandler) RefreshStock(c *gin.Context) {
	if err := h.svc.RefreshStock(c.Request.Context()); err != nil {
		h.logger.Error("manual stock refresh failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "stock refresh failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCart serves the current cart view.
func (h *TerminalHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Cart())
}

// ClearCart empties the cart and its applied discounts.
func (h *TerminalHandler) ClearCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ClearCart())
}

type addItemRequest struct {
	ProductID string           `json:"productId" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

// AddItem adds one unit of a product to the cart.
func (h *TerminalHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.svc.AddItem(req.ProductID, req.UnitPrice)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity sets a line quantity; zero removes the line.
func (h *TerminalHandler) UpdateQuantity(c *gin.Context) {
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.svc.UpdateQuantity(index, req.Quantity)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type updatePriceRequest struct {
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

// OverridePrice applies a custom unit price to a line and pushes it to the
// catalog on a best-effort basis. The price is a pointer so an explicit zero
// survives presence validation.
func (h *TerminalHandler) OverridePrice(c *gin.Context) {
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}

	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.UnitPrice == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unitPrice is required"})
		return
	}

	view, warnings, err := h.svc.OverridePrice(c.Request.Context(), index, *req.UnitPrice)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": view, "warnings": warnings})
}

// ResetPrice restores a line's catalog price.
func (h *TerminalHandler) ResetPrice(c *gin.Context) {
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}

	view, err := h.svc.ResetPrice(index)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type lineDiscountRequest struct {
	Kind  models.DiscountKind `json:"type" binding:"required"`
	Value decimal.Decimal     `json:"value"`
}

// SetLineDiscount attaches a per-line reduction to a cart line.
func (h *TerminalHandler) SetLineDiscount(c *gin.Context) {
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}

	var req lineDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Kind != models.DiscountPercentage && req.Kind != models.DiscountFlat {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be Percentage or Flat"})
		return
	}

	view, err := h.svc.SetLineDiscount(index, &models.LineDiscount{Kind: req.Kind, Value: req.Value})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ClearLineDiscount removes the per-line reduction from a cart line.
func (h *TerminalHandler) ClearLineDiscount(c *gin.Context) {
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}

	view, err := h.svc.SetLineDiscount(index, nil)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemoveLine deletes a cart line.
func (h *TerminalHandler) RemoveLine(c *gin.Context) {
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}

	view, err := h.svc.RemoveLine(index)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ApplicableDiscounts lists the active offers that currently apply to the cart.
func (h *TerminalHandler) ApplicableDiscounts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"discounts": h.svc.ApplicableDiscounts()})
}

type applyDiscountRequest struct {
	DiscountID string `json:"discountId" binding:"required"`
}

// ApplyDiscount attaches an offer to the cart.
func (h *TerminalHandler) ApplyDiscount(c *gin.Context) {
	var req applyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.svc.ApplyDiscount(req.DiscountID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemoveDiscount detaches an applied offer.
func (h *TerminalHandler) RemoveDiscount(c *gin.Context) {
	view, err := h.svc.RemoveDiscount(c.Param("discountID"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type selectCustomerRequest struct {
	CustomerID string `json:"customerId" binding:"required"`
}

// SelectCustomer records the buyer for the in-progress sale.
func (h *TerminalHandler) SelectCustomer(c *gin.Context) {
	var req selectCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.SelectCustomer(req.CustomerID); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type selectPaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

// SelectPaymentMethod records the tender for the in-progress sale.
func (h *TerminalHandler) SelectPaymentMethod(c *gin.Context) {
	var req selectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.svc.SelectPaymentMethod(req.Method)
	c.Status(http.StatusNoContent)
}

// CompleteSale finalizes the in-progress sale. Soft failures (payment record,
// stock refresh) ride along as warnings on the success response.
func (h *TerminalHandler) CompleteSale(c *gin.Context) {
	result, err := h.svc.CompleteSale(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sale": result.Sale, "warnings": result.Warnings})
}

// HoldSale parks the current cart for later completion.
func (h *TerminalHandler) HoldSale(c *gin.Context) {
	result, err := h.svc.HoldSale(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sale": result.Sale, "warnings": result.Warnings})
}

func (h *TerminalHandler) lineIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "line index must be an integer"})
		return 0, false
	}
	return index, true
}

// renderError maps the domain error taxonomy onto HTTP statuses. Every
// failure here is recoverable by the operator; nothing is fatal.
func (h *TerminalHandler) renderError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": validationErr.Reasons})
	case errors.Is(err, models.ErrLineNotFound),
		errors.Is(err, models.ErrUnknownProduct),
		errors.Is(err, models.ErrUnknownCustomer),
		errors.Is(err, models.ErrDiscountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrOutOfStock),
		errors.Is(err, models.ErrStockLimitExceeded),
		errors.Is(err, models.ErrDiscountAlreadyApplied),
		errors.Is(err, models.ErrDiscountNotApplicable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrRemoteSaleFailed),
		errors.Is(err, models.ErrRemoteHoldFailed),
		errors.Is(err, models.ErrRemoteCustomerCreateFailed):
		h.logger.Error("remote collaborator failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.Error("unexpected terminal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
