package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher refreshes the forecasts of the reminders in a window of days.
type Refresher interface {
	RefreshUpcoming(ctx context.Context, from time.Time, days int) error
}

// Scheduler periodically refreshes the forecasts of upcoming reminders.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	cronSpec  string
	lookahead int
	timeout   time.Duration
}

// New creates a new Scheduler. When cronSpec is non-empty it is used instead of interval.
func New(refresher Refresher, interval time.Duration, cronSpec string, lookahead int) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		cronSpec:  cronSpec,
		lookahead: lookahead,
		timeout:   2 * time.Minute,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.lookahead <= 0 {
		log.Println("scheduler: lookahead is zero; nothing to schedule")
		return nil
	}

	var job *gocron.Scheduler
	if s.cronSpec != "" {
		job = s.scheduler.Cron(s.cronSpec)
		log.Printf("scheduler: refreshing forecasts on cron %q", s.cronSpec)
	} else {
		minutes := int(s.interval.Minutes())
		if minutes <= 0 {
			minutes = 30
		}
		job = s.scheduler.Every(minutes).Minutes()
		log.Printf("scheduler: refreshing forecasts every %d minutes", minutes)
	}

	if _, err := job.Do(s.run); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	log.Println("scheduler: running forecast refresh job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.refresher.RefreshUpcoming(ctx, time.Now().UTC(), s.lookahead); err != nil {
		log.Printf("scheduler: forecast refresh failed: %v", err)
		return
	}
	log.Println("scheduler: completed forecast refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
