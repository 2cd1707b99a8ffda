package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contentforge/article-engine/internal/store/model"
)

// Job interface for job-related database operations. Update writes only the
// named columns, so a stage persisting its field group cannot clobber columns
// owned by other stages.
type Job interface {
	Create(ctx context.Context, job *model.Job) (*model.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	Update(ctx context.Context, job *model.Job, columns ...string) (*model.Job, error)
	List(ctx context.Context) (model.JobList, error)
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) Create(ctx context.Context, job *model.Job) (*model.Job, error) {
	if result := s.db.WithContext(ctx).Create(job); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating job: %w", result.Error)
	}
	return s.Get(ctx, job.ID)
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	result := s.db.WithContext(ctx).First(&job, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying job: %w", result.Error)
	}
	return &job, nil
}

// Update persists the given columns of the job and bumps updated_at. The
// returned job is re-read so callers always observe the stored state.
func (s *JobStore) Update(ctx context.Context, job *model.Job, columns ...string) (*model.Job, error) {
	selected := append(columns, "updated_at")
	result := s.db.WithContext(ctx).
		Model(&model.Job{}).
		Where("id = ?", job.ID).
		Select(selected).
		Updates(job)
	if result.Error != nil {
		return nil, fmt.Errorf("updating job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return s.Get(ctx, job.ID)
}

func (s *JobStore) List(ctx context.Context) (model.JobList, error) {
	var jobs model.JobList
	if result := s.db.WithContext(ctx).Order("created_at DESC").Find(&jobs); result.Error != nil {
		return nil, fmt.Errorf("listing jobs: %w", result.Error)
	}
	return jobs, nil
}
