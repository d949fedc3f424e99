package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a maintenance task the scheduler can run on its own timetable.
type Job interface {
	Run(ctx context.Context) error
}

type Scheduler struct {
	c          *cron.Cron
	reconciler Job
	exporter   Job
}

func NewScheduler(reconciler, exporter Job) *Scheduler {
	return &Scheduler{
		c:          cron.New(cron.WithSeconds()),
		reconciler: reconciler,
		exporter:   exporter,
	}
}

// Start registers the nightly jobs and launches the cron loop.
// Reconciliation runs at 03:00, the backup export at 03:30.
func (s *Scheduler) Start() {
	if s.reconciler != nil {
		if _, err := s.c.AddFunc("0 0 3 * * *", func() {
			s.runJob("reconcile", s.reconciler)
		}); err != nil {
			log.Printf("[error] operation=cron job=reconcile error=%v", err)
			return
		}
	}

	if s.exporter != nil {
		if _, err := s.c.AddFunc("0 30 3 * * *", func() {
			s.runJob("export", s.exporter)
		}); err != nil {
			log.Printf("[error] operation=cron job=export error=%v", err)
			return
		}
	}

	log.Println("Cron scheduler started (nightly maintenance at 03:00)")
	s.c.Start()
}

func (s *Scheduler) Stop() {
	s.c.Stop()
}

func (s *Scheduler) runJob(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		log.Printf("[error] operation=cron job=%s error=%v", name, err)
		return
	}
	log.Printf("[info] operation=cron job=%s duration=%s", name, time.Since(start))
}
