package mappers

import (
	"github.com/google/uuid"

	api "github.com/contentforge/article-engine/api/v1alpha1"
	"github.com/contentforge/article-engine/internal/store/model"
)

// ArticleCreateForm is the validated inbound shape of a job creation request.
type ArticleCreateForm struct {
	Topic           string
	TargetWordCount int
	Language        string
}

func (f ArticleCreateForm) ToJob(id uuid.UUID) *model.Job {
	return model.NewJob(id, api.ArticleInput{
		Topic:           f.Topic,
		TargetWordCount: f.TargetWordCount,
		Language:        f.Language,
	})
}

// JobToApi projects a stored job onto the wire shape. Absent field groups
// stay absent on the wire.
func JobToApi(job *model.Job) api.Job {
	out := api.Job{
		Id: job.ID.String(),
		Input: api.ArticleInput{
			Topic:           job.Topic,
			TargetWordCount: job.TargetWordCount,
			Language:        job.Language,
		},
		Status:    api.StringToJobStatus(job.Status),
		Error:     job.Error,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}

	if job.SerpResults != nil {
		out.SerpResults = job.SerpResults.Data
	}
	if job.SerpAnalysis != nil {
		analysis := job.SerpAnalysis.Data
		out.SerpAnalysis = &analysis
	}
	if job.Outline != nil {
		outline := job.Outline.Data
		out.Outline = &outline
	}
	if job.Article != nil {
		article := job.Article.Data
		out.Article = &article
	}

	return out
}

func JobListToApi(jobs model.JobList) []api.Job {
	out := make([]api.Job, 0, len(jobs))
	for i := range jobs {
		out = append(out, JobToApi(&jobs[i]))
	}
	return out
}
