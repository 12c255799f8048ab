package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/craftline/stockdesk/internal/domain/models"
	catalogsvc "github.com/craftline/stockdesk/internal/service/catalog"
	movementsvc "github.com/craftline/stockdesk/internal/service/movements"
)

// WriteHandler serves every endpoint that appends to or edits the backing
// store.
type WriteHandler struct {
	movements *movementsvc.Service
	catalog   *catalogsvc.Service
	logger    *zap.Logger
}

// NewWriteHandler constructs the write-side HTTP adapter.
func NewWriteHandler(movements *movementsvc.Service, catalog *catalogsvc.Service, logger *zap.Logger) *WriteHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WriteHandler{movements: movements, catalog: catalog, logger: logger}
}

// PostMovements records a batch of ledger entries.
func (h *WriteHandler) PostMovements(c *gin.Context) {
	var req struct {
		Items []movementsvc.MovementDraft `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid movements payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	records, err := h.movements.SubmitMovements(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": records})
}

// PostTransfer records a plant-to-plant transfer as two paired legs.
func (h *WriteHandler) PostTransfer(c *gin.Context) {
	var draft movementsvc.TransferDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.logger.Warn("invalid transfer payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	legs, err := h.movements.SubmitTransfer(c.Request.Context(), draft)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": legs})
}

// PostItems adds catalog items; codes are generated server-side.
func (h *WriteHandler) PostItems(c *gin.Context) {
	var req struct {
		Items []catalogsvc.ItemDraft `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid items payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items, err := h.catalog.AddItems(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": items})
}

// PutItem rewrites the full catalog record for the code in the path.
func (h *WriteHandler) PutItem(c *gin.Context) {
	var item models.CatalogItem
	if err := c.ShouldBindJSON(&item); err != nil {
		h.logger.Warn("invalid item payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item.ItemCode = c.Param("item_code")

	if err := h.catalog.UpdateItem(c.Request.Context(), item); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// PreviewCode dry-runs code generation so the form can show the code before
// submit.
func (h *WriteHandler) PreviewCode(c *gin.Context) {
	var req struct {
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid preview payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	code, err := h.catalog.PreviewCode(req.Description)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_code": code})
}

// PostDamaged records damaged-goods entries.
func (h *WriteHandler) PostDamaged(c *gin.Context) {
	var req struct {
		Items []movementsvc.DamagedDraft `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid damaged payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	records, err := h.movements.SubmitDamaged(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": records})
}
