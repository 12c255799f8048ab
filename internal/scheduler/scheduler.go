package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/craftline/stockdesk/internal/config"
	"github.com/craftline/stockdesk/internal/repository/mongodb"
	"github.com/craftline/stockdesk/internal/service/stock"
)

// Scheduler manages the periodic reconciliation refresh and the nightly
// snapshot archive.
type Scheduler struct {
	cron     *cron.Cron
	stockSvc *stock.Service
	archive  mongodb.Repository
	cfg      config.JobsConfig
	logger   *zap.Logger
}

// New creates a scheduler instance. The archive may be nil when MongoDB is
// not configured; the snapshot job is skipped in that case.
func New(cfg config.JobsConfig, stockSvc *stock.Service, archive mongodb.Repository, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(location)),
		stockSvc: stockSvc,
		archive:  archive,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("refresh", s.cfg.RefreshCron),
		zap.String("snapshot", s.cfg.SnapshotCron))

	if _, err := s.cron.AddFunc(s.cfg.RefreshCron, s.runRefresh); err != nil {
		s.logger.Error("failed to schedule refresh job", zap.Error(err))
	}

	if s.archive != nil {
		if _, err := s.cron.AddFunc(s.cfg.SnapshotCron, s.runSnapshot); err != nil {
			s.logger.Error("failed to schedule snapshot job", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.stockSvc.Refresh(ctx); err != nil {
		s.logger.Error("scheduled refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("scheduled refresh completed")
}

func (s *Scheduler) runSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snapshot, err := s.stockSvc.Snapshot(ctx)
	if err != nil {
		s.logger.Error("failed to build snapshot", zap.Error(err))
		return
	}

	if err := s.archive.SaveSnapshot(ctx, snapshot); err != nil {
		s.logger.Error("failed to archive snapshot", zap.Error(err))
		return
	}
	s.logger.Info("snapshot archived", zap.Int("items", snapshot.ItemCount))
}
