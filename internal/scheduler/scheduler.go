package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/invest-advisor/internal/config"
	"github.com/mamadbah2/invest-advisor/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// SnapshotSource provides point-in-time copies of the ledger.
type SnapshotSource interface {
	Snapshot() models.LedgerSnapshot
}

// SnapshotSink receives ledger snapshots.
type SnapshotSink interface {
	Name() string
	Store(ctx context.Context, snapshot models.LedgerSnapshot) error
}

// SinkFunc adapts a function to SnapshotSink.
type SinkFunc struct {
	Label string
	Fn    func(ctx context.Context, snapshot models.LedgerSnapshot) error
}

// Name returns the sink label used in logs.
func (s SinkFunc) Name() string { return s.Label }

// Store calls Fn.
func (s SinkFunc) Store(ctx context.Context, snapshot models.LedgerSnapshot) error {
	return s.Fn(ctx, snapshot)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	source SnapshotSource
	sinks  []SnapshotSink
	logger *zap.Logger
}

// NewScheduler creates a new scheduler instance running the ledger export in
// the configured timezone.
func NewScheduler(cfg config.LedgerConfig, source SnapshotSource, sinks []SnapshotSink, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(location)),
		spec:   cfg.ExportCron,
		source: source,
		sinks:  sinks,
		logger: logger,
	}, nil
}

// Start registers the export job and starts the scheduler. Nothing is
// scheduled when no sink is configured.
func (s *Scheduler) Start() error {
	if len(s.sinks) == 0 {
		s.logger.Info("no ledger export sink configured, scheduler idle")
		return nil
	}

	s.logger.Info("starting scheduler", zap.String("ledger_export", s.spec))
	if _, err := s.cron.AddFunc(s.spec, s.exportLedger); err != nil {
		return fmt.Errorf("schedule ledger export: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) exportLedger() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.ExportNow(ctx)
}

// ExportNow pushes one snapshot to every sink. A failing sink does not stop the others.
func (s *Scheduler) ExportNow(ctx context.Context) int {
	snapshot := s.source.Snapshot()
	s.logger.Info("exporting ledger snapshot", zap.Int("accounts", len(snapshot.Accounts)))

	var failed int
	for _, sink := range s.sinks {
		if err := sink.Store(ctx, snapshot); err != nil {
			failed++
			s.logger.Error("ledger export failed", zap.String("sink", sink.Name()), zap.Error(err))
			continue
		}
		s.logger.Debug("ledger export stored", zap.String("sink", sink.Name()))
	}
	return failed
}
