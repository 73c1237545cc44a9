package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"drink-reminder/internal/domain"
	"drink-reminder/internal/logging"
)

// GocronScheduler implements domain.Scheduler with a gocron scheduler.
// This is a secondary adapter.
type GocronScheduler struct {
	scheduler gocron.Scheduler
}

// NewGocronScheduler creates and starts the underlying gocron scheduler.
func NewGocronScheduler() (*GocronScheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	s.Start()
	return &GocronScheduler{scheduler: s}, nil
}

// Every registers task to run each interval, first firing one interval from now.
// Runs of the same trigger never overlap; a run still busy when the next is due
// is skipped.
func (g *GocronScheduler) Every(interval time.Duration, task func()) (domain.TriggerHandle, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}
	if task == nil {
		return nil, errors.New("task is required")
	}

	job, err := g.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(fmt.Sprintf("reminder-every-%s", interval)),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create periodic trigger: %w", err)
	}

	logging.Logger().Debug("trigger scheduled",
		logging.Trigger(job.ID().String()),
		"every", interval.String())
	return &gocronHandle{scheduler: g.scheduler, id: job.ID()}, nil
}

// Shutdown stops every trigger and the scheduler itself.
func (g *GocronScheduler) Shutdown() error {
	return g.scheduler.Shutdown()
}

type gocronHandle struct {
	scheduler gocron.Scheduler
	id        uuid.UUID
}

func (h *gocronHandle) ID() string {
	return h.id.String()
}

// Cancel removes the job. Removing an already removed job is not an error.
func (h *gocronHandle) Cancel() error {
	err := h.scheduler.RemoveJob(h.id)
	if errors.Is(err, gocron.ErrJobNotFound) {
		return nil
	}
	return err
}

var _ domain.Scheduler = (*GocronScheduler)(nil)
