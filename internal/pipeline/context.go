// Package pipeline drives a job through the fixed sequence of content
// generation stages, persisting each stage's output so an interrupted job can
// resume where it left off.
package pipeline

import (
	"github.com/google/uuid"

	api "github.com/contentforge/article-engine/api/v1alpha1"
	"github.com/contentforge/article-engine/internal/store/model"
)

// Context is the in-memory projection of a job's persisted field groups. It
// is rebuilt from the stored job at the start of every orchestrator run and
// owned by that run alone. A nil (or empty, for SerpResults) field means the
// owning stage has not completed yet.
type Context struct {
	JobID uuid.UUID
	Input api.ArticleInput

	SerpResults  []api.SERPResult
	SerpAnalysis *api.SERPAnalysis
	Outline      *api.Outline
	Article      *api.Article
}

// ContextFromJob projects the persisted field groups of a job into a fresh
// run context.
func ContextFromJob(job *model.Job) *Context {
	c := &Context{
		JobID: job.ID,
		Input: api.ArticleInput{
			Topic:           job.Topic,
			TargetWordCount: job.TargetWordCount,
			Language:        job.Language,
		},
	}

	if job.SerpResults != nil {
		c.SerpResults = job.SerpResults.Data
	}
	if job.SerpAnalysis != nil {
		analysis := job.SerpAnalysis.Data
		c.SerpAnalysis = &analysis
	}
	if job.Outline != nil {
		outline := job.Outline.Data
		c.Outline = &outline
	}
	if job.Article != nil {
		article := job.Article.Data
		c.Article = &article
	}

	return c
}
