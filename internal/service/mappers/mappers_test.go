package mappers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/contentforge/article-engine/api/v1alpha1"
	"github.com/contentforge/article-engine/internal/store/model"
)

func TestArticleCreateFormToJob(t *testing.T) {
	id := uuid.New()
	form := ArticleCreateForm{Topic: "a topic", TargetWordCount: 1500, Language: "en"}

	job := form.ToJob(id)

	assert.Equal(t, id, job.ID)
	assert.Equal(t, "a topic", job.Topic)
	assert.Equal(t, 1500, job.TargetWordCount)
	assert.Equal(t, "en", job.Language)
	assert.Equal(t, model.JobStatusPending, job.Status)
}

func TestJobToApiOmitsAbsentFieldGroups(t *testing.T) {
	job := model.NewJob(uuid.New(), api.ArticleInput{Topic: "a topic", TargetWordCount: 900, Language: "en"})

	out := JobToApi(job)

	assert.Equal(t, job.ID.String(), out.Id)
	assert.Equal(t, api.JobStatusPending, out.Status)
	assert.Nil(t, out.SerpResults)
	assert.Nil(t, out.SerpAnalysis)
	assert.Nil(t, out.Outline)
	assert.Nil(t, out.Article)
}

func TestJobToApiProjectsFieldGroups(t *testing.T) {
	job := model.NewJob(uuid.New(), api.ArticleInput{Topic: "a topic", TargetWordCount: 900, Language: "en"})
	job.Status = model.JobStatusCompleted
	job.SerpResults = model.MakeJSONField([]api.SERPResult{{Rank: 1, URL: "https://example.com"}})
	job.SerpAnalysis = model.MakeJSONField(api.SERPAnalysis{PrimaryKeyword: "a keyword"})
	job.Outline = model.MakeJSONField(api.Outline{Title: "A title"})
	job.Article = model.MakeJSONField(api.Article{H1: "A headline"})

	out := JobToApi(job)

	assert.Equal(t, api.JobStatusCompleted, out.Status)
	require.Len(t, out.SerpResults, 1)
	require.NotNil(t, out.SerpAnalysis)
	assert.Equal(t, "a keyword", out.SerpAnalysis.PrimaryKeyword)
	require.NotNil(t, out.Outline)
	assert.Equal(t, "A title", out.Outline.Title)
	require.NotNil(t, out.Article)
	assert.Equal(t, "A headline", out.Article.H1)
}

func TestJobListToApi(t *testing.T) {
	jobs := model.JobList{
		*model.NewJob(uuid.New(), api.ArticleInput{Topic: "first", TargetWordCount: 900, Language: "en"}),
		*model.NewJob(uuid.New(), api.ArticleInput{Topic: "second", TargetWordCount: 1200, Language: "en"}),
	}

	out := JobListToApi(jobs)

	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Input.Topic)
	assert.Equal(t, "second", out[1].Input.Topic)
}
