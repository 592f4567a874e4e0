package services

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the index rebuild (and whatever else the task closes over)
// on a cron spec.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Schedule registers the task under the given cron spec (standard 5-field
// syntax) and starts the scheduler.
func (s *Scheduler) Schedule(spec string, task func()) error {
	if _, err := s.cron.AddFunc(spec, task); err != nil {
		return fmt.Errorf("scheduler: add cron entry: %w", err)
	}
	s.cron.Start()
	slog.Info("rebuild scheduled", "cron", spec)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
