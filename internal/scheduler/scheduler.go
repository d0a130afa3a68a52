package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"whatsapp_dashboard/internal/models"
)

// Syncer replays the fallback queue.
type Syncer interface {
	Sync(ctx context.Context) (*models.SyncReport, error)
}

// Scheduler runs the fallback sync on a cron schedule. An empty spec disables it.
type Scheduler struct {
	cron   *cron.Cron
	syncer Syncer

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func New(syncer Syncer, spec string) (*Scheduler, error) {
	s := &Scheduler{syncer: syncer}
	if spec == "" {
		return s, nil
	}

	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("scheduler: invalid spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Enabled() bool {
	return s.cron != nil
}

// Start begins the schedule. Jobs run with a context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) {
	if s.cron == nil {
		return
	}
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sync to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

func (s *Scheduler) run() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	s.RunOnce(ctx)
}

func (s *Scheduler) RunOnce(ctx context.Context) {
	report, err := s.syncer.Sync(ctx)
	if err != nil {
		slog.Error("fallback sync failed", "error", err)
		return
	}
	if report.Synced > 0 || report.Failed > 0 {
		slog.Info("fallback sync finished", "synced", report.Synced, "failed", report.Failed)
	}
}
