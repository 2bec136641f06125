// Package scheduler runs background jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// JobStatus represents the status of a job.
type JobStatus string

const (
	JobStatusScheduled JobStatus = "scheduled"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobInfo describes a scheduled job and its last outcome.
type JobInfo struct {
	ID         string
	Name       string
	Schedule   string
	Status     JobStatus
	LastRun    time.Time
	NextRun    time.Time
	RunCount   int
	ErrorCount int
	LastError  string
}

// JobFunc is the work a job performs.
type JobFunc func(ctx context.Context) error

type job struct {
	info   JobInfo
	gocron gocron.Job
}

// Scheduler manages scheduled jobs.
type Scheduler struct {
	gocron gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	jobs map[string]*job
}

// New creates a new scheduler.
func New() (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLogger(newLogger()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		gocron: s,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*job),
	}, nil
}

// AddCronJob registers a job that runs on the given cron schedule.
// Only one instance of a job runs at a time; overlapping runs are rescheduled.
func (s *Scheduler) AddCronJob(id, name, schedule string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job %s already exists", id)
	}

	j := &job{info: JobInfo{
		ID:       id,
		Name:     name,
		Schedule: schedule,
		Status:   JobStatusScheduled,
	}}

	gj, err := s.gocron.NewJob(gocron.CronJob(schedule, false),
		gocron.NewTask(s.wrap(id, fn)),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}
	j.gocron = gj
	s.jobs[id] = j

	log.Info("Added job to scheduler", "id", id, "name", name, "schedule", schedule)
	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.gocron.Start()
	log.Info("Job scheduler started")
}

// Stop stops the scheduler and cancels running jobs.
func (s *Scheduler) Stop() error {
	log.Info("Stopping job scheduler")
	s.cancel()
	return s.gocron.Shutdown()
}

// RunJobNow triggers a job immediately.
func (s *Scheduler) RunJobNow(id string) error {
	s.mu.RLock()
	j, exists := s.jobs[id]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job %s not found", id)
	}

	log.Info("Manually triggering job", "id", id, "name", j.info.Name)
	if err := j.gocron.RunNow(); err != nil {
		return fmt.Errorf("failed to trigger job %s: %w", id, err)
	}
	return nil
}

// GetJob returns a snapshot of the job with the given id.
func (s *Scheduler) GetJob(id string) (JobInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, exists := s.jobs[id]
	if !exists {
		return JobInfo{}, false
	}
	info := j.info
	if nextRun, err := j.gocron.NextRun(); err == nil {
		info.NextRun = nextRun
	}
	return info, true
}

// wrap records the outcome of every run.
func (s *Scheduler) wrap(id string, fn JobFunc) func() {
	return func() {
		s.mu.Lock()
		j := s.jobs[id]
		if j == nil {
			s.mu.Unlock()
			log.Error("Job info not found", "id", id)
			return
		}
		j.info.Status = JobStatusRunning
		j.info.LastRun = time.Now()
		j.info.RunCount++
		name := j.info.Name
		s.mu.Unlock()

		log.Debug("Starting job", "id", id, "name", name)
		err := fn(s.ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			log.Error("Job failed", "id", id, "name", name, "error", err)
			j.info.Status = JobStatusFailed
			j.info.ErrorCount++
			j.info.LastError = err.Error()
			return
		}
		log.Debug("Job completed successfully", "id", id, "name", name)
		j.info.Status = JobStatusCompleted
		j.info.LastError = ""
	}
}
