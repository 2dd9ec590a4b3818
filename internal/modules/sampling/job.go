package sampling

import "context"

// Job adapts the service to the scheduler
type Job struct {
	ctx     context.Context
	service *Service
}

// NewJob creates a sampling job. ctx is cancelled on shutdown.
func NewJob(ctx context.Context, service *Service) *Job {
	return &Job{ctx: ctx, service: service}
}

// Name returns the job name
func (j *Job) Name() string {
	return "sampling_cycle"
}

// Run executes one cycle. Cycle failures are handled and logged inside
// RunOnce, so Run only fails once shutdown has begun.
func (j *Job) Run() error {
	if err := j.ctx.Err(); err != nil {
		return err
	}
	j.service.RunOnce(j.ctx)
	return nil
}
