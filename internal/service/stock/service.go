package stock

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/craftline/stockdesk/internal/domain/models"
	"github.com/craftline/stockdesk/internal/gateway"
	"github.com/craftline/stockdesk/internal/metrics"
	"github.com/craftline/stockdesk/internal/store"
)

// Service owns the read path: full reloads from the gateway and the derived
// views served to the dashboard.
type Service struct {
	gw     gateway.Gateway
	st     *store.Store
	engine *Engine
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the stock read service.
func NewService(gw gateway.Gateway, st *store.Store, engine *Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gw: gw, st: st, engine: engine, logger: logger, now: time.Now}
}

// Refresh performs a full reload of ledger, catalog and damaged log, then
// replaces the confirmed tier. On any gateway failure nothing local
// changes: the previously loaded state keeps serving.
func (s *Service) Refresh(ctx context.Context) error {
	metrics.RefreshTotal.Inc()

	movements, err := s.gw.ListMovements(ctx)
	if err != nil {
		metrics.RefreshFailures.Inc()
		return fmt.Errorf("refresh: %w", err)
	}

	items, err := s.gw.ListCatalog(ctx)
	if err != nil {
		metrics.RefreshFailures.Inc()
		return fmt.Errorf("refresh: %w", err)
	}

	damaged, err := s.gw.ListDamaged(ctx)
	if err != nil {
		metrics.RefreshFailures.Inc()
		return fmt.Errorf("refresh: %w", err)
	}

	s.st.ReplaceConfirmed(movements, items, damaged)
	metrics.LedgerSize.Set(float64(len(movements)))

	s.logger.Info("dataset reloaded",
		zap.Int("movements", len(movements)),
		zap.Int("items", len(items)),
		zap.Int("damaged", len(damaged)))
	return nil
}

// EnsureLoaded refreshes once if no full fetch has ever landed, so the
// first read after startup does not serve an empty dashboard when the
// initial load failed.
func (s *Service) EnsureLoaded(ctx context.Context) error {
	if s.st.Loaded() {
		return nil
	}
	return s.Refresh(ctx)
}

// StockView returns the catalog joined with live aggregates, plus orphan
// aggregates whose code is missing from the catalog.
func (s *Service) StockView(ctx context.Context) ([]models.MergedRow, []models.AggregatedStock, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, nil, err
	}

	items := s.st.CatalogItems()
	aggregates := s.engine.Aggregate(s.st.Movements(), s.now())
	return s.engine.Merge(items, aggregates), s.engine.Orphans(items, aggregates), nil
}

// Movements returns the merged ledger, pending overlay included.
func (s *Service) Movements(ctx context.Context) ([]models.MovementRecord, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.st.Movements(), nil
}

// Catalog returns the merged catalog.
func (s *Service) Catalog(ctx context.Context) ([]models.CatalogItem, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.st.CatalogItems(), nil
}

// Damaged returns the merged damaged-goods log.
func (s *Service) Damaged(ctx context.Context) ([]models.DamagedRecord, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.st.Damaged(), nil
}

// Snapshot materializes the current aggregated view as an archive document.
func (s *Service) Snapshot(ctx context.Context) (models.StockSnapshot, error) {
	rows, _, err := s.StockView(ctx)
	if err != nil {
		return models.StockSnapshot{}, err
	}

	now := s.now().UTC()
	snap := models.StockSnapshot{
		Date:      now.Truncate(24 * time.Hour),
		Rows:      make([]models.SnapshotRow, 0, len(rows)),
		ItemCount: len(rows),
		CreatedAt: now,
	}
	for _, row := range rows {
		snap.Rows = append(snap.Rows, models.SnapshotRow{
			ItemCode:     row.ItemCode,
			UnplannedQty: row.UnplannedQty.String(),
			PlannedQty:   row.PlannedQty.String(),
			PlantName:    row.StockPlant,
			AgeDays:      row.AgeDays,
		})
	}
	return snap, nil
}
