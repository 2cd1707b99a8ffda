package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentforge/article-engine/internal/pipeline"
	"github.com/contentforge/article-engine/internal/service/mappers"
	"github.com/contentforge/article-engine/internal/store"
	"github.com/contentforge/article-engine/internal/store/model"
)

// ArticleService is the boundary surface of the engine: create-and-run,
// lookup, and explicit resume of article jobs.
type ArticleService struct {
	store        store.Store
	orchestrator *pipeline.Orchestrator
}

func NewArticleService(s store.Store, orchestrator *pipeline.Orchestrator) *ArticleService {
	return &ArticleService{store: s, orchestrator: orchestrator}
}

// CreateArticle creates the job in pending and immediately runs the pipeline
// on the calling goroutine, returning the terminal job. A stage failure shows
// up as status=failed on the returned job, not as an error.
func (s *ArticleService) CreateArticle(ctx context.Context, form mappers.ArticleCreateForm) (*model.Job, error) {
	job, err := s.store.Job().Create(ctx, form.ToJob(uuid.New()))
	if err != nil {
		return nil, err
	}

	zap.S().Named("service").Infof("created job %s for topic %q", job.ID, job.Topic)
	return s.orchestrator.Run(ctx, job.ID)
}

func (s *ArticleService) GetArticle(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}
	return job, nil
}

func (s *ArticleService) ListArticles(ctx context.Context) (model.JobList, error) {
	return s.store.Job().List(ctx)
}

// RunArticle resumes a pending or failed job; stages whose output is already
// persisted are skipped. Callers must serialize runs of the same job id.
func (s *ArticleService) RunArticle(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := s.orchestrator.Run(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}
	return job, nil
}
