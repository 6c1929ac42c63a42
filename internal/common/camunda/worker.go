// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"estate-workers/internal/common/config"
	"estate-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Job outcomes reported to a JobRecorder.
const (
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
	JobStatusThrown     = "error_thrown"
	JobStatusUnanswered = "unanswered"
)

// JobRecorder receives one outcome and one duration per handled job.
type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration)
}

// JobWorkerRegistry opens job workers and closes them together on shutdown.
type JobWorkerRegistry struct {
	client   zbc.Client
	logger   logger.Logger
	recorder JobRecorder
	workers  map[string]worker.JobWorker
}

func NewJobWorkerRegistry(client zbc.Client, log logger.Logger) *JobWorkerRegistry {
	return &JobWorkerRegistry{
		client:  client,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// WithRecorder reports every job handled by workers started afterwards to rec.
func (r *JobWorkerRegistry) WithRecorder(rec JobRecorder) *JobWorkerRegistry {
	r.recorder = rec
	return r
}

// Start opens a job worker for taskType unless the worker is disabled.
func (r *JobWorkerRegistry) Start(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) {
	if !wcfg.Enabled {
		r.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	r.workers[taskType] = r.client.NewJobWorker().
		JobType(taskType).
		Handler(r.instrument(taskType, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	r.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
}

func (r *JobWorkerRegistry) instrument(taskType string, handler worker.JobHandler) worker.JobHandler {
	if r.recorder == nil {
		return handler
	}
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		tracked := &trackingClient{JobClient: client, status: JobStatusUnanswered}
		handler(tracked, job)

		ctx := context.Background()
		r.recorder.RecordJobProcessed(ctx, taskType, tracked.status)
		r.recorder.RecordJobDuration(ctx, taskType, time.Since(start))
	}
}

// trackingClient remembers the last command a handler built for its job.
type trackingClient struct {
	worker.JobClient
	status string
}

func (c *trackingClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.status = JobStatusCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *trackingClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.status = JobStatusFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *trackingClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.status = JobStatusThrown
	return c.JobClient.NewThrowErrorCommand()
}

// TaskTypes lists the task types with an open worker.
func (r *JobWorkerRegistry) TaskTypes() []string {
	out := make([]string, 0, len(r.workers))
	for t := range r.workers {
		out = append(out, t)
	}
	return out
}

// Close stops every worker and waits for in-flight jobs.
func (r *JobWorkerRegistry) Close() {
	for taskType, w := range r.workers {
		w.Close()
		w.AwaitClose()
		r.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
}

// CompleteJob completes job with output marshalled as the job variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("build complete command for job %d: %w", job.GetKey(), err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("complete job %d: %w", job.GetKey(), err)
	}
	return nil
}
