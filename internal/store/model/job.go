package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	api "github.com/contentforge/article-engine/api/v1alpha1"
)

// Job status constants. A job moves pending -> running -> completed | failed;
// failed jobs may go back to running on a resume.
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Job is the persisted unit of work. The four jsonb columns are the stage
// field groups: each is written exactly once, by the stage that owns it, and
// is never cleared afterwards.
type Job struct {
	ID              uuid.UUID `gorm:"primaryKey;type:VARCHAR(255)"`
	Topic           string    `gorm:"not null"`
	TargetWordCount int       `gorm:"not null"`
	Language        string    `gorm:"not null;default:en"`
	Status          string    `gorm:"not null;index"`
	Error           *string   `gorm:"type:TEXT"`

	SerpResults  *JSONField[[]api.SERPResult] `gorm:"type:jsonb;column:serp_results"`
	SerpAnalysis *JSONField[api.SERPAnalysis] `gorm:"type:jsonb;column:serp_analysis"`
	Outline      *JSONField[api.Outline]      `gorm:"type:jsonb"`
	Article      *JSONField[api.Article]      `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type JobList []Job

func NewJob(id uuid.UUID, input api.ArticleInput) *Job {
	return &Job{
		ID:              id,
		Topic:           input.Topic,
		TargetWordCount: input.TargetWordCount,
		Language:        input.Language,
		Status:          JobStatusPending,
	}
}

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}
