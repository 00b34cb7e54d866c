package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper is the subscription lifecycle surface the daily trigger drives.
type Sweeper interface {
	ExpirySweep(ctx context.Context, now time.Time) error
	ReminderSweep(ctx context.Context, now time.Time) error
}

// Scheduler fires once daily at midnight UTC and runs the expiry sweep
// followed by the reminder sweep. A failing sweep is logged and never stops
// the other one or the next day's firing.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
}

func New(sweeper Sweeper) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		sweeper: sweeper,
		timeout: 10 * time.Minute,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 * * *", s.RunSweeps); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("Scheduler started, sweeps run daily at 00:00 UTC")
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) RunSweeps() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Sweep run panicked: %v", r)
		}
	}()

	now := time.Now().UTC()
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.sweeper.ExpirySweep(ctx, now); err != nil {
		log.Printf("Expiry sweep failed: %v", err)
	}
	if err := s.sweeper.ReminderSweep(ctx, now); err != nil {
		log.Printf("Reminder sweep failed: %v", err)
	}
}
