package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mbdiagne/comptoir/internal/config"
)

// StockRefresher is the ledger operation the scheduler drives.
type StockRefresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler keeps the stock snapshot fresh on a fixed interval. The interval
// and jitter come from configuration; jitter desynchronizes terminals that
// were started together.
type Scheduler struct {
	cron      *cron.Cron
	refresher StockRefresher
	cfg       config.Config
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, refresher StockRefresher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start() {
	spec := fmt.Sprintf("@every %s", s.cfg.Inventory.RefreshInterval)
	s.logger.Info("starting scheduler",
		zap.String("schedule", spec),
		zap.Duration("jitter", s.cfg.Inventory.RefreshJitter))

	if _, err := s.cron.AddFunc(spec, s.refreshStock); err != nil {
		s.logger.Error("failed to schedule stock refresh", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) refreshStock() {
	if s.cfg.Inventory.RefreshJitter > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(s.cfg.Inventory.RefreshJitter))))
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.refreshBudget())
	defer cancel()

	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Warn("scheduled stock refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("scheduled stock refresh completed")
}

// refreshBudget bounds one refresh run by the configured backend timeout,
// leaving a margin for decoding and snapshot replacement.
func (s *Scheduler) refreshBudget() time.Duration {
	budget := 2 * s.cfg.Backend.Timeout
	if budget <= 0 {
		budget = 30 * time.Second
	}
	return budget
}
