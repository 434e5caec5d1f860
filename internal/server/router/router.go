package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbdiagne/comptoir/internal/server/handlers"
)

// New wires the Gin engine with the terminal routes and middlewares.
func New(handler *handlers.TerminalHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/catalog/products", handler.ListProducts)

	r.GET("/customers", handler.ListCustomers)
	r.POST("/customers", handler.CreateCustomer)

	r.GET("/stock", handler.StockSnapshot)
	r.GET("/stock/:productID", handler.ProductStock)
	r.POST("/stock/refresh", handler.RefreshStock)

	r.GET("/cart", handler.GetCart)
	r.DELETE("/cart", handler.ClearCart)
	r.POST("/cart/items", handler.AddItem)
	r.PUT("/cart/items/:index/quantity", handler.UpdateQuantity)
	r.PUT("/cart/items/:index/price", handler.OverridePrice)
	r.DELETE("/cart/items/:index/price", handler.ResetPrice)
	r.PUT("/cart/items/:index/discount", handler.SetLineDiscount)
	r.DELETE("/cart/items/:index/discount", handler.ClearLineDiscount)
	r.DELETE("/cart/items/:index", handler.RemoveLine)

	r.GET("/discounts/applicable", handler.ApplicableDiscounts)
	r.POST("/cart/discounts", handler.ApplyDiscount)
	r.DELETE("/cart/discounts/:discountID", handler.RemoveDiscount)

	r.PUT("/session/customer", handler.SelectCustomer)
	r.PUT("/session/payment-method", handler.SelectPaymentMethod)

	r.POST("/checkout/complete", handler.CompleteSale)
	r.POST("/checkout/hold", handler.HoldSale)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
