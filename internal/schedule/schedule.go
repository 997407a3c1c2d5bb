package schedule

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Scheduler runs one job on a standard 5-field cron expression. A tick that
// arrives while the previous run is still going is skipped.
type Scheduler struct {
	cron *cron.Cron
}

func New(spec string, job func()) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c}, nil
}

// Run starts the scheduler and blocks until ctx is done, then waits for any
// in-flight job to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}
