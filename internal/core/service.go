package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/robfig/cron/v3"

	"friendskeeper/internal/config"
	"friendskeeper/pkg/logx"
)

// Service is serve mode: a resident process that fires the cycle on a cron
// schedule and hot-applies config edits. It exists for hosts without a
// system cron; the cycle itself stays single-shot and synchronous.
type Service struct {
	runner *Runner
	mgr    *config.Manager
	logs   *logx.Service
	log    logx.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	spec    string
}

func NewService(runner *Runner, mgr *config.Manager, logs *logx.Service, log logx.Logger) *Service {
	return &Service{runner: runner, mgr: mgr, logs: logs, log: log}
}

// Run blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	cfg := s.mgr.Get()
	spec, err := CronSpec(cfg.Scheduler.At)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	s.cron = cron.New()
	if err := s.schedule(ctx, spec); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", logx.String("spec", spec))

	updates := s.mgr.Subscribe(1)
	defer s.mgr.Unsubscribe(updates)

	watchDone := make(chan error, 1)
	go func() { watchDone <- s.mgr.Watch(ctx) }()

	// Under systemd, report readiness; everywhere else this is a no-op.
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			if watchDone != nil {
				<-watchDone
			}
			s.log.Info("scheduler stopped")
			return nil
		case err := <-watchDone:
			// Watch sends exactly once. Nil the channel so neither this
			// case nor the drain above can block on a second receive.
			watchDone = nil
			if err != nil && ctx.Err() == nil {
				s.shutdown()
				return fmt.Errorf("config watch: %w", err)
			}
		case cfg := <-updates:
			s.applyUpdate(ctx, cfg)
		}
	}
}

// shutdown reports STOPPING and waits for any running cycle to finish.
func (s *Service) shutdown() {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	stop := s.cron.Stop()
	<-stop.Done()
}

func (s *Service) schedule(ctx context.Context, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, func() {
		if err := s.runner.RunCycle(ctx); err != nil {
			s.log.Error("cycle failed", logx.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	s.entryID = id
	s.spec = spec
	return nil
}

func (s *Service) applyUpdate(ctx context.Context, cfg *config.Config) {
	if s.logs != nil {
		s.logs.Apply(logx.Config{
			Level:   cfg.Logging.Level,
			Console: cfg.LoggingConsole(),
			File: logx.FileConfig{
				Enabled: cfg.Logging.File.Enabled,
				Path:    cfg.Logging.File.Path,
			},
		})
	}
	s.runner.SetConfig(cfg)

	spec, err := CronSpec(cfg.Scheduler.At)
	if err != nil {
		s.log.Warn("reloaded schedule is invalid, keeping previous", logx.Err(err))
		return
	}
	if spec == s.spec {
		return
	}

	s.mu.Lock()
	s.cron.Remove(s.entryID)
	s.mu.Unlock()
	if err := s.schedule(ctx, spec); err != nil {
		s.log.Error("cannot apply reloaded schedule", logx.Err(err))
		return
	}
	s.log.Info("schedule updated", logx.String("spec", spec))
}
