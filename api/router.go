package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_service/internal/products"
	"sales_service/internal/sales"
)

// InitRoutes registers all sale and product endpoints on the given Gin
// engine, binding each HTTP method and path to the appropriate handler.
func InitRoutes(e *gin.Engine, salesService *sales.Service, productStorage products.Storage, logger *zap.Logger) {
	salesHandler := NewSalesHandler(salesService, logger)
	productsHandler := NewProductsHandler(productStorage, logger)

	e.POST("/sales", salesHandler.handleCreateSale)
	e.GET("/sales", salesHandler.handleListSales)
	e.GET("/sales/:id", salesHandler.handleGetSale)
	e.PATCH("/sales/:id", salesHandler.handleAdvanceSale)
	e.POST("/sales/:id/cancel", salesHandler.handleCancelSale)
	e.DELETE("/sales/:id", salesHandler.handleDeleteSale)
	e.PATCH("/sales/:id/products", salesHandler.handlePatchProducts)
	e.DELETE("/sales/:id/products", salesHandler.handleRemoveProducts)

	e.GET("/products", productsHandler.handleListProducts)
	e.GET("/products/:id", productsHandler.handleGetProduct)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
