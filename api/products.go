package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_service/internal/apperr"
	"sales_service/internal/pagination"
	"sales_service/internal/products"
)

// productsHandler exposes the product catalog the sales API prices from.
type productsHandler struct {
	storage products.Storage
	logger  *zap.Logger
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(storage products.Storage, logger *zap.Logger) *productsHandler {
	return &productsHandler{
		storage: storage,
		logger:  logger,
	}
}

// handleListProducts handles the GET /products endpoint with pagination.
func (h *productsHandler) handleListProducts(ctx *gin.Context) {
	pageNumber, pageSize, err := pageParams(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	all, err := h.storage.GetAll(ctx.Request.Context())
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	page, err := pagination.Paginate(all, pageNumber, pageSize)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// handleGetProduct handles the GET /products/:id endpoint.
func (h *productsHandler) handleGetProduct(ctx *gin.Context) {
	product, err := h.storage.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if apperr.IsNotFound(err) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to get product", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(http.StatusOK, product)
}
