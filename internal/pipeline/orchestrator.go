package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentforge/article-engine/internal/store"
	"github.com/contentforge/article-engine/internal/store/model"
	"github.com/contentforge/article-engine/pkg/metrics"
)

// Orchestrator drives a job through its registered stages, one synchronous
// run at a time.
//
// Status machine of a run:
//
//	pending/failed -> running -> fetchSERP -> analyzeSERP -> buildOutline
//	                             -> draftArticle -> validateAndLink
//	                          -> completed | failed
//
// Only pending/running/completed/failed are persisted; the per-stage
// progression is recoverable from which field groups are populated, which is
// exactly what CanSkip inspects on resume.
//
// Concurrent runs on different job IDs are independent. Runs on the same job
// ID are not coordinated here and must be serialized by the caller.
type Orchestrator struct {
	store  store.Store
	stages []Stage
}

// NewOrchestrator builds an orchestrator over an explicit, ordered stage
// registration so tests can substitute stages without touching the run loop.
func NewOrchestrator(s store.Store, stages []Stage) *Orchestrator {
	return &Orchestrator{store: s, stages: stages}
}

// Run loads the job, replays the stage sequence against its persisted state,
// and leaves the job completed or failed. Stage failures are recorded on the
// job, not returned: the returned error is reserved for missing jobs and
// persistence faults, where the run's outcome could not be recorded at all.
func (o *Orchestrator) Run(ctx context.Context, jobID uuid.UUID) (*model.Job, error) {
	log := zap.S().Named("pipeline")

	job, err := o.store.Job().Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == model.JobStatusCompleted {
		return job, nil
	}

	job.Status = model.JobStatusRunning
	job.Error = nil
	if job, err = o.store.Job().Update(ctx, job, "status", "error"); err != nil {
		return nil, err
	}

	c := ContextFromJob(job)

	for _, stage := range o.stages {
		if stage.CanSkip(c) {
			metrics.IncreaseStageSkips(stage.Name())
			log.Debugf("job %s: stage %s output present, skipping", job.ID, stage.Name())
			continue
		}

		start := time.Now()
		if execErr := stage.Execute(ctx, c); execErr != nil {
			metrics.IncreaseStageFailures(stage.Name())
			metrics.IncreaseJobsTotal(model.JobStatusFailed)
			log.Errorf("job %s: stage %s failed: %s", job.ID, stage.Name(), execErr)

			msg := fmt.Sprintf("%s: %s", stage.Name(), execErr.Error())
			job.Status = model.JobStatusFailed
			job.Error = &msg
			return o.store.Job().Update(ctx, job, "status", "error")
		}
		metrics.ObserveStageDuration(stage.Name(), time.Since(start))

		if err := applyOwnedField(stage.Owns(), c, job); err != nil {
			return nil, err
		}
		if job, err = o.store.Job().Update(ctx, job, string(stage.Owns())); err != nil {
			return nil, err
		}
		log.Infof("job %s: stage %s completed in %s", job.ID, stage.Name(), time.Since(start))
	}

	metrics.IncreaseJobsTotal(model.JobStatusCompleted)
	job.Status = model.JobStatusCompleted
	return o.store.Job().Update(ctx, job, "status")
}

// applyOwnedField copies a stage's owned field group from the run context
// onto the persisted job row. The ownership table is the only place mapping
// field groups to columns.
func applyOwnedField(group FieldGroup, c *Context, job *model.Job) error {
	switch group {
	case FieldSerpResults:
		job.SerpResults = model.MakeJSONField(c.SerpResults)
	case FieldSerpAnalysis:
		job.SerpAnalysis = model.MakeJSONField(*c.SerpAnalysis)
	case FieldOutline:
		job.Outline = model.MakeJSONField(*c.Outline)
	case FieldArticle:
		job.Article = model.MakeJSONField(*c.Article)
	default:
		return fmt.Errorf("unknown field group %q", group)
	}
	return nil
}
