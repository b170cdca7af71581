package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_service/internal/apperr"
	"sales_service/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for
// sales operations.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

type createSaleRequest struct {
	UserID   string                 `json:"user_id"`
	Products []sales.ProductRequest `json:"products"`
}

type patchProductsRequest struct {
	Products []sales.ProductRequest `json:"products"`
}

type removeProductsRequest struct {
	Products []string `json:"products"`
}

// handleCreateSale handles the POST /sales endpoint.
func (h *salesHandler) handleCreateSale(ctx *gin.Context) {
	var req createSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	sale, err := h.salesService.CreateSale(ctx.Request.Context(), req.UserID, req.Products)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, sale)
}

// handleGetSale handles the GET /sales/:id endpoint.
func (h *salesHandler) handleGetSale(ctx *gin.Context) {
	sale, err := h.salesService.GetSale(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

// handleListSales handles the GET /sales endpoint with pagination and
// optional user/status filters.
func (h *salesHandler) handleListSales(ctx *gin.Context) {
	pageNumber, pageSize, err := pageParams(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := sales.ListFilter{
		UserID: ctx.Query("user_id"),
		Status: sales.SaleStatus(ctx.Query("status")),
	}
	page, err := h.salesService.ListSales(ctx.Request.Context(), filter, pageNumber, pageSize)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// handleAdvanceSale handles the PATCH /sales/:id endpoint, moving the sale
// one step along active -> payed -> delivery -> finished.
func (h *salesHandler) handleAdvanceSale(ctx *gin.Context) {
	sale, err := h.salesService.AdvanceSale(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

// handleCancelSale handles the POST /sales/:id/cancel endpoint.
func (h *salesHandler) handleCancelSale(ctx *gin.Context) {
	sale, err := h.salesService.CancelSale(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

// handleDeleteSale handles the DELETE /sales/:id endpoint. The sale is
// soft-cancelled, never physically removed.
func (h *salesHandler) handleDeleteSale(ctx *gin.Context) {
	deleted, err := h.salesService.DeleteSale(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if !deleted {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}

// handlePatchProducts handles the PATCH /sales/:id/products endpoint,
// updating quantities of existing line items and adding new ones.
func (h *salesHandler) handlePatchProducts(ctx *gin.Context) {
	var req patchProductsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	sale, err := h.salesService.PatchProducts(ctx.Request.Context(), ctx.Param("id"), req.Products)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

// handleRemoveProducts handles the DELETE /sales/:id/products endpoint,
// cancelling the named line items.
func (h *salesHandler) handleRemoveProducts(ctx *gin.Context) {
	var req removeProductsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	sale, err := h.salesService.RemoveProducts(ctx.Request.Context(), ctx.Param("id"), req.Products)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

// respondError maps the failure taxonomy onto HTTP statuses.
func (h *salesHandler) respondError(ctx *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.IsInvalidState(err):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("internal error", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pageParams reads the page/page_size query parameters.
func pageParams(ctx *gin.Context) (int, int, error) {
	pageNumber, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil {
		return 0, 0, apperr.Validation("page must be an integer")
	}
	pageSize, err := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	if err != nil {
		return 0, 0, apperr.Validation("page_size must be an integer")
	}
	return pageNumber, pageSize, nil
}
