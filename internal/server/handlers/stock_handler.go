package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/craftline/stockdesk/internal/domain/models"
	"github.com/craftline/stockdesk/internal/gateway"
	"github.com/craftline/stockdesk/internal/repository/mongodb"
	"github.com/craftline/stockdesk/internal/service/stock"
)

// StockHandler serves the dashboard's read endpoints.
type StockHandler struct {
	svc     *stock.Service
	archive mongodb.Repository
	logger  *zap.Logger
}

// NewStockHandler constructs the read-side HTTP adapter. The archive may be
// nil when MongoDB is not configured.
func NewStockHandler(svc *stock.Service, archive mongodb.Repository, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{svc: svc, archive: archive, logger: logger}
}

// Stock returns the catalog joined with live aggregates plus orphan
// aggregates whose code has no catalog entry.
func (h *StockHandler) Stock(c *gin.Context) {
	rows, orphans, err := h.svc.StockView(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows, "orphans": orphans})
}

// Movements returns the merged ledger, pending overlay included.
func (h *StockHandler) Movements(c *gin.Context) {
	records, err := h.svc.Movements(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}

// Catalog returns the merged master item list.
func (h *StockHandler) Catalog(c *gin.Context) {
	items, err := h.svc.Catalog(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Damaged returns the damaged-goods log.
func (h *StockHandler) Damaged(c *gin.Context) {
	records, err := h.svc.Damaged(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}

// Refresh forces a full reload from the backing store.
func (h *StockHandler) Refresh(c *gin.Context) {
	if err := h.svc.Refresh(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

// LatestSnapshot returns the most recent archived snapshot.
func (h *StockHandler) LatestSnapshot(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot archive not configured"})
		return
	}

	snapshot, err := h.archive.LatestSnapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading latest snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load snapshot"})
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot archived yet"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// respondError maps service errors onto HTTP statuses: validation failures
// enumerate the offending rows, transport failures report the datastore as
// unavailable while the previously loaded state keeps serving.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": verrs})
		return
	}

	var fetchErr *gateway.FetchError
	if errors.As(err, &fetchErr) {
		logger.Warn("datastore unreachable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "datastore unavailable"})
		return
	}

	logger.Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
