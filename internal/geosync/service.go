package geosync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/netfence/geogate/internal/config"
	"github.com/netfence/geogate/internal/logging"
	"github.com/netfence/geogate/internal/scheduler"
)

// syncTaskID identifies the recurring sync task in the scheduler.
const syncTaskID = "geosync"

// Service runs the reconciler on a schedule for daemon mode. Runs are
// serialized by the single scheduler task; there is no internal
// parallelism beyond that.
type Service struct {
	rec   *Reconciler
	cfg   *config.Config
	sched *scheduler.Scheduler
	log   *logging.Logger

	mu      sync.Mutex
	running bool
}

// NewService creates the daemon service around an existing reconciler.
func NewService(rec *Reconciler, cfg *config.Config, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Default()
	}
	return &Service{
		rec:   rec,
		cfg:   cfg,
		sched: scheduler.New(log),
		log:   log.WithComponent("geosync"),
	}
}

// Start registers the sync task and starts the scheduler.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	sched, err := s.buildSchedule()
	if err != nil {
		return err
	}

	task := &scheduler.Task{
		ID:         syncTaskID,
		Name:       "Country list sync",
		Schedule:   sched,
		Enabled:    true,
		RunOnStart: s.cfg.Sync.RunOnStart,
		Timeout:    10 * time.Minute,
		Func: func(ctx context.Context) error {
			_, err := s.rec.Run(ctx, ModeUpdate)
			return err
		},
	}

	if err := s.sched.AddTask(task); err != nil {
		return err
	}

	s.sched.Start()
	s.running = true
	s.log.Info("service started", "interval", s.cfg.Sync.Interval, "cron", s.cfg.Sync.Cron)
	return nil
}

// Stop stops the scheduler and waits for an in-flight run to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.sched.Stop()
	s.running = false
	s.log.Info("service stopped")
}

// Status returns the sync task status.
func (s *Service) Status() (scheduler.TaskStatus, bool) {
	return s.sched.GetTaskStatus(syncTaskID)
}

// buildSchedule prefers the cron expression when configured, falling back
// to the plain interval.
func (s *Service) buildSchedule() (scheduler.Schedule, error) {
	if s.cfg.Sync.Cron != "" {
		cron, err := scheduler.Cron(s.cfg.Sync.Cron)
		if err != nil {
			return nil, fmt.Errorf("sync.cron: %w", err)
		}
		return cron, nil
	}
	return scheduler.Every(s.cfg.Interval()), nil
}
