package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/craftline/stockdesk/internal/server/handlers"
	"github.com/craftline/stockdesk/internal/store"
)

// New wires the Gin engine with required routes and middlewares.
func New(stockHandler *handlers.StockHandler, writeHandler *handlers.WriteHandler, st *store.Store, logger *zap.Logger, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		pm, pi, pd := st.PendingCounts()
		c.JSON(200, gin.H{
			"status":         "ok",
			"loaded":         st.Loaded(),
			"loaded_at":      st.LoadedAt(),
			"pending_writes": pm + pi + pd,
			"pending_detail": gin.H{"movements": pm, "items": pi, "damaged": pd},
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/stock", stockHandler.Stock)
		api.GET("/movements", stockHandler.Movements)
		api.GET("/catalog", stockHandler.Catalog)
		api.GET("/damaged", stockHandler.Damaged)
		api.POST("/refresh", stockHandler.Refresh)
		api.GET("/snapshots/latest", stockHandler.LatestSnapshot)

		api.POST("/movements", writeHandler.PostMovements)
		api.POST("/transfers", writeHandler.PostTransfer)
		api.POST("/items", writeHandler.PostItems)
		api.PUT("/items/:item_code", writeHandler.PutItem)
		api.POST("/items/preview-code", writeHandler.PreviewCode)
		api.POST("/damaged", writeHandler.PostDamaged)
	}

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
