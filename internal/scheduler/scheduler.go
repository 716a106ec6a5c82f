// Package scheduler runs the periodic background jobs: the market report
// and the volatility check. Jobs are plain functions so the scheduler stays
// decoupled from the pipeline packages that implement them.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/chipsight/chipsight/internal/report"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context)

// Scheduler drives the report and check jobs on their intervals.
type Scheduler struct {
	reportJob      Job
	checkJob       Job
	reportInterval time.Duration
	checkInterval  time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a scheduler. Intervals of zero fall back to hourly reports
// and 15-minute checks.
func New(reportJob, checkJob Job, reportInterval, checkInterval time.Duration) *Scheduler {
	if reportInterval <= 0 {
		reportInterval = time.Hour
	}
	if checkInterval <= 0 {
		checkInterval = 15 * time.Minute
	}
	return &Scheduler{
		reportJob:      reportJob,
		checkJob:       checkJob,
		reportInterval: reportInterval,
		checkInterval:  checkInterval,
	}
}

// Start launches the job loops. Calling Start on a running scheduler is a
// no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		log.Printf("scheduler: already running")
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.running = true

	go s.run(ctx)
	log.Printf("scheduler: started (report every %s, check every %s)", s.reportInterval, s.checkInterval)
}

// Stop halts the job loops and waits for the running iteration to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
	log.Printf("scheduler: stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	reportTicker := time.NewTicker(s.reportInterval)
	defer reportTicker.Stop()
	checkTicker := time.NewTicker(s.checkInterval)
	defer checkTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-reportTicker.C:
			if s.reportJob != nil {
				s.reportJob(ctx)
			}
		case <-checkTicker.C:
			if s.checkJob != nil {
				s.checkJob(ctx)
			}
		}
	}
}

// Status describes the scheduler's current state.
type Status struct {
	Running           bool   `json:"is_running"`
	NextReport        string `json:"next_report"`
	ReportIntervalMin int    `json:"report_interval_minutes"`
	CheckIntervalMin  int    `json:"check_interval_minutes"`
}

// Status reports whether the loops are running and when the next top-of-hour
// report lands.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Running:           s.running,
		NextReport:        report.NextHour(time.Now).Format("2006-01-02 15:00"),
		ReportIntervalMin: int(s.reportInterval.Minutes()),
		CheckIntervalMin:  int(s.checkInterval.Minutes()),
	}
}

// RunReportNow triggers the report job immediately, outside the schedule.
func (s *Scheduler) RunReportNow(ctx context.Context) {
	if s.reportJob != nil {
		s.reportJob(ctx)
	}
}

// RunCheckNow triggers the check job immediately, outside the schedule.
func (s *Scheduler) RunCheckNow(ctx context.Context) {
	if s.checkJob != nil {
		s.checkJob(ctx)
	}
}
