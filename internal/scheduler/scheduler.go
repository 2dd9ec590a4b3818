// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs.
//
// Every job is wrapped so that a panic is recovered and logged, and a run
// that is still in progress delays the next one instead of overlapping it.
type Scheduler struct {
	cron    *cron.Cron
	log     zerolog.Logger
	mu      sync.Mutex
	startup []cron.EntryID
}

// New creates a new scheduler evaluating schedules in loc
func New(loc *time.Location, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}

	log = log.With().Str("component", "scheduler").Logger()
	cronLog := cronLogger{log: log}

	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.DelayIfStillRunning(cronLog)),
		),
		log: log,
	}
}

// Start starts the scheduler and triggers jobs registered with RunOnStart
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")

	s.mu.Lock()
	startup := s.startup
	s.startup = nil
	s.mu.Unlock()

	for _, id := range startup {
		// WrappedJob shares the overlap guard with scheduled runs
		go s.cron.Entry(id).WrappedJob.Run()
	}
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a new job with cron schedule
// Schedule examples:
//   - "0 */5 * * * *"      - Every 5 minutes
//   - "0 0 3 * * *"        - 03:00 daily
//   - "@every 5m"          - Every 5 minutes from start
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.addJob(schedule, job)
	return err
}

// RunOnStart registers a job like AddJob and also runs it once as soon as
// the scheduler starts
func (s *Scheduler) RunOnStart(schedule string, job Job) error {
	id, err := s.addJob(schedule, job)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.startup = append(s.startup, id)
	s.mu.Unlock()
	return nil
}

func (s *Scheduler) addJob(schedule string, job Job) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(schedule, func() {
		s.log.Debug().Str("job", job.Name()).Msg("Running job")

		start := time.Now()
		if err := job.Run(); err != nil {
			s.log.Error().
				Err(err).
				Str("job", job.Name()).
				Msg("Job failed")
		} else {
			s.log.Debug().
				Str("job", job.Name()).
				Dur("duration", time.Since(start)).
				Msg("Job completed")
		}
	})

	if err != nil {
		return 0, err
	}

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return id, nil
}

// cronLogger routes cron's internal logging to zerolog
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
