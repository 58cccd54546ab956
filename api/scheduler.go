/*
scheduler.go - Automated week generation scheduler

PURPOSE:
  Periodically makes sure the running week and the following one have
  a generated schedule, so the roster stays ahead of the calendar
  without anyone pressing a button.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Delegates to the Planner, which skips frozen rows and records a
    generation run per pass
  - Generation is idempotent, so repeated ticks over an already
    generated week change nothing

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewAutoScheduler(planner, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - planner.go: EnsureUpcoming
  - handlers.go: GenerateSchedule endpoint (manual generation)
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// AutoScheduler keeps upcoming weeks generated in the background.
type AutoScheduler struct {
	Planner       *Planner
	Logger        *logrus.Logger
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewAutoScheduler creates a new scheduler.
func NewAutoScheduler(planner *Planner, logger *logrus.Logger) *AutoScheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &AutoScheduler{
		Planner:       planner,
		Logger:        logger,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (as *AutoScheduler) Start() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if !as.Enabled {
		as.Logger.Info("[Scheduler] Disabled, not starting")
		return
	}

	as.ticker = time.NewTicker(as.CheckInterval)
	as.wg.Add(1)

	go as.run()

	as.Logger.Infof("[Scheduler] Started with check interval: %v", as.CheckInterval)
}

// Stop stops the scheduler.
func (as *AutoScheduler) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.ticker != nil {
		as.ticker.Stop()
		close(as.stop)
		as.wg.Wait()
		as.Logger.Info("[Scheduler] Stopped")
	}
}

func (as *AutoScheduler) run() {
	defer as.wg.Done()

	// Run immediately on start
	as.checkAndGenerate()

	for {
		select {
		case <-as.ticker.C:
			as.checkAndGenerate()
		case <-as.stop:
			return
		}
	}
}

func (as *AutoScheduler) checkAndGenerate() {
	ctx := context.Background()

	if err := as.Planner.EnsureUpcoming(ctx, roster.TriggerScheduled); err != nil {
		as.Logger.WithError(err).Warn("[Scheduler] Week generation failed")
		return
	}
}

// RunNow triggers an immediate check (for testing/admin).
func (as *AutoScheduler) RunNow() {
	as.checkAndGenerate()
}

// GetNextRunTime returns when the next scheduled check will occur.
func (as *AutoScheduler) GetNextRunTime() time.Time {
	return time.Now().Add(as.CheckInterval)
}
