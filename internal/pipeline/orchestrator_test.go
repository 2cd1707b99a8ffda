package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/contentforge/article-engine/api/v1alpha1"
	"github.com/contentforge/article-engine/internal/seo"
	"github.com/contentforge/article-engine/internal/store"
	"github.com/contentforge/article-engine/internal/store/model"
)

type fakeStore struct {
	jobs map[uuid.UUID]*model.Job
}

func newFakeStore() *fakeStore {
	return &fakeStore{jobs: map[uuid.UUID]*model.Job{}}
}

func (s *fakeStore) Job() store.Job          { return &fakeJobStore{s} }
func (s *fakeStore) InitialMigration() error { return nil }
func (s *fakeStore) Close() error            { return nil }

type fakeJobStore struct {
	s *fakeStore
}

func (f *fakeJobStore) Create(_ context.Context, job *model.Job) (*model.Job, error) {
	if _, ok := f.s.jobs[job.ID]; ok {
		return nil, store.ErrDuplicateKey
	}
	cp := *job
	f.s.jobs[job.ID] = &cp
	return f.Get(context.Background(), job.ID)
}

func (f *fakeJobStore) Get(_ context.Context, id uuid.UUID) (*model.Job, error) {
	stored, ok := f.s.jobs[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	cp := *stored
	return &cp, nil
}

// Update mirrors the column-selective write of the real store: only the named
// columns reach the stored row.
func (f *fakeJobStore) Update(_ context.Context, job *model.Job, columns ...string) (*model.Job, error) {
	stored, ok := f.s.jobs[job.ID]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	for _, col := range columns {
		switch col {
		case "status":
			stored.Status = job.Status
		case "error":
			stored.Error = job.Error
		case "serp_results":
			stored.SerpResults = job.SerpResults
		case "serp_analysis":
			stored.SerpAnalysis = job.SerpAnalysis
		case "outline":
			stored.Outline = job.Outline
		case "article":
			stored.Article = job.Article
		}
	}
	return f.Get(context.Background(), job.ID)
}

func (f *fakeJobStore) List(_ context.Context) (model.JobList, error) {
	jobs := make(model.JobList, 0, len(f.s.jobs))
	for _, j := range f.s.jobs {
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

type fakeFetcher struct {
	calls   int
	results []api.SERPResult
	err     error
}

func (f *fakeFetcher) FetchTop(_ context.Context, _ string, _ int) ([]api.SERPResult, error) {
	f.calls++
	return f.results, f.err
}

type fakeGenerator struct {
	analysisCalls int
	outlineCalls  int
	draftCalls    int

	analysis *api.SERPAnalysis
	outline  *api.Outline
	draft    *Draft

	outlineErr error
}

func (g *fakeGenerator) GenerateAnalysis(_ context.Context, _ string, _ []api.SERPResult) (*api.SERPAnalysis, error) {
	g.analysisCalls++
	return g.analysis, nil
}

func (g *fakeGenerator) GenerateOutline(_ context.Context, _ string, _ api.SERPAnalysis, _ int) (*api.Outline, error) {
	g.outlineCalls++
	if g.outlineErr != nil {
		return nil, g.outlineErr
	}
	return g.outline, nil
}

func (g *fakeGenerator) GenerateDraft(_ context.Context, _ string, _ api.Outline, _ api.SERPAnalysis, _ int) (*Draft, error) {
	g.draftCalls++
	return g.draft, nil
}

const draftBody = `# Best productivity tools for remote teams

Remote teams move faster when productivity tools keep work visible across time zones.

## Why productivity tools matter

Shared boards cut status meetings down to minutes.

## Picking the right stack

Start with one tool per problem and resist overlap.

## Rolling out across the team

Adoption beats feature lists every single time.
`

func testAnalysis() *api.SERPAnalysis {
	return &api.SERPAnalysis{
		PrimaryKeyword:    "productivity tools",
		SecondaryKeywords: []string{"remote work software"},
		Topics:            []string{"team adoption"},
		FAQs:              []string{"which productivity tools fit remote teams"},
	}
}

func testOutline() *api.Outline {
	return &api.Outline{
		Title: "Best productivity tools for remote teams",
		Sections: []api.OutlineSection{
			{HeadingLevel: 2, Heading: "Why productivity tools matter", Slug: "why-productivity-tools-matter", Summary: "The case for tooling."},
			{HeadingLevel: 2, Heading: "Picking the right stack", Slug: "picking-the-right-stack", Summary: "Selection criteria."},
			{HeadingLevel: 2, Heading: "Rolling out across the team", Slug: "rolling-out-across-the-team", Summary: "Adoption tips."},
		},
	}
}

func testSERPResults() []api.SERPResult {
	return []api.SERPResult{
		{Rank: 1, URL: "https://one.example.com", Title: "Productivity tools guide", Snippet: "tooling for teams"},
		{Rank: 2, URL: "https://two.example.com", Title: "Remote work handbook", Snippet: "working across time zones"},
	}
}

type pipelineFixture struct {
	store     *fakeStore
	fetcher   *fakeFetcher
	generator *fakeGenerator
	orch      *Orchestrator
	job       *model.Job
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	s := newFakeStore()
	fetcher := &fakeFetcher{results: testSERPResults()}
	generator := &fakeGenerator{
		analysis: testAnalysis(),
		outline:  testOutline(),
		draft: &Draft{
			BodyMarkdown:    draftBody,
			TitleTag:        "Best productivity tools for remote teams",
			MetaDescription: "A practical guide to tooling for distributed teams.",
		},
	}

	job := model.NewJob(uuid.New(), api.ArticleInput{
		Topic:           "best productivity tools for remote teams",
		TargetWordCount: seo.WordCount(draftBody),
		Language:        "en",
	})
	_, err := s.Job().Create(context.Background(), job)
	require.NoError(t, err)

	orch := NewOrchestrator(s, Stages(fetcher, generator, seo.NewValidator(), seo.NewLinkPlanner(), 10))
	return &pipelineFixture{store: s, fetcher: fetcher, generator: generator, orch: orch, job: job}
}

func TestRunCompletesJob(t *testing.T) {
	f := newPipelineFixture(t)

	job, err := f.orch.Run(context.Background(), f.job.ID)

	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Nil(t, job.Error)

	require.NotNil(t, job.SerpResults)
	require.NotNil(t, job.SerpAnalysis)
	require.NotNil(t, job.Outline)
	require.NotNil(t, job.Article)

	article := job.Article.Data
	assert.Equal(t, "Best productivity tools for remote teams", article.H1)
	assert.GreaterOrEqual(t, len(article.InternalLinks), 3)
	assert.GreaterOrEqual(t, len(article.ExternalReferences), 2)
	assert.Equal(t, "BlogPosting", article.StructuredData["@type"])
	assert.Equal(t, seo.WordCount(draftBody), article.SEO.EstimatedWordCount)

	assert.Equal(t, 1, f.fetcher.calls)
	assert.Equal(t, 1, f.generator.analysisCalls)
	assert.Equal(t, 1, f.generator.outlineCalls)
	assert.Equal(t, 1, f.generator.draftCalls)
}

func TestRunIsIdempotentOnCompletedJob(t *testing.T) {
	f := newPipelineFixture(t)

	first, err := f.orch.Run(context.Background(), f.job.ID)
	require.NoError(t, err)
	require.Equal(t, model.JobStatusCompleted, first.Status)

	second, err := f.orch.Run(context.Background(), f.job.ID)
	require.NoError(t, err)

	assert.Equal(t, model.JobStatusCompleted, second.Status)
	assert.Equal(t, 1, f.fetcher.calls)
	assert.Equal(t, 1, f.generator.analysisCalls)
	assert.Equal(t, 1, f.generator.outlineCalls)
	assert.Equal(t, 1, f.generator.draftCalls)
}

func TestRunStageFailureMarksJobFailed(t *testing.T) {
	f := newPipelineFixture(t)
	f.generator.outlineErr = fmt.Errorf("generation quota exceeded")

	job, err := f.orch.Run(context.Background(), f.job.ID)

	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, job.Status)
	require.NotNil(t, job.Error)
	assert.Equal(t, "buildOutline: generation quota exceeded", *job.Error)

	// completed stages stay persisted, the failed one leaves nothing behind
	assert.NotNil(t, job.SerpResults)
	assert.NotNil(t, job.SerpAnalysis)
	assert.Nil(t, job.Outline)
	assert.Nil(t, job.Article)
}

func TestRunNilGeneratorResultFailsStage(t *testing.T) {
	f := newPipelineFixture(t)
	f.generator.analysis = nil

	job, err := f.orch.Run(context.Background(), f.job.ID)

	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, job.Status)
	require.NotNil(t, job.Error)
	assert.Equal(t, "analyzeSERP: generator returned no analysis", *job.Error)

	assert.NotNil(t, job.SerpResults)
	assert.Nil(t, job.SerpAnalysis)
}

func TestRunResumesAfterFailure(t *testing.T) {
	f := newPipelineFixture(t)
	f.generator.outlineErr = fmt.Errorf("generation quota exceeded")

	job, err := f.orch.Run(context.Background(), f.job.ID)
	require.NoError(t, err)
	require.Equal(t, model.JobStatusFailed, job.Status)

	f.generator.outlineErr = nil
	job, err = f.orch.Run(context.Background(), f.job.ID)
	require.NoError(t, err)

	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Nil(t, job.Error)
	assert.NotNil(t, job.Article)

	// the resume reuses persisted search results and analysis
	assert.Equal(t, 1, f.fetcher.calls)
	assert.Equal(t, 1, f.generator.analysisCalls)
	assert.Equal(t, 2, f.generator.outlineCalls)
	assert.Equal(t, 1, f.generator.draftCalls)
}

func TestRunValidationFailurePersistsDraft(t *testing.T) {
	f := newPipelineFixture(t)
	// four words will never reach the target band
	f.generator.draft.BodyMarkdown = "# Best productivity tools\n\nWay too short.\n"

	job, err := f.orch.Run(context.Background(), f.job.ID)

	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, job.Status)
	require.NotNil(t, job.Error)
	assert.Contains(t, *job.Error, "validateAndLink:")
	assert.Contains(t, *job.Error, "word-count-band")

	// the draft survives, its links stay empty until validation passes
	require.NotNil(t, job.Article)
	assert.Empty(t, job.Article.Data.InternalLinks)
	assert.Empty(t, job.Article.Data.ExternalReferences)
}

func TestRunUnknownJob(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.orch.Run(context.Background(), uuid.New())

	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestContextFromJobProjectsFieldGroups(t *testing.T) {
	job := model.NewJob(uuid.New(), api.ArticleInput{Topic: "topic", TargetWordCount: 900, Language: "en"})
	job.SerpResults = model.MakeJSONField(testSERPResults())
	job.SerpAnalysis = model.MakeJSONField(*testAnalysis())

	c := ContextFromJob(job)

	assert.Equal(t, job.ID, c.JobID)
	assert.Equal(t, "topic", c.Input.Topic)
	assert.Len(t, c.SerpResults, 2)
	require.NotNil(t, c.SerpAnalysis)
	assert.Equal(t, "productivity tools", c.SerpAnalysis.PrimaryKeyword)
	assert.Nil(t, c.Outline)
	assert.Nil(t, c.Article)
}
