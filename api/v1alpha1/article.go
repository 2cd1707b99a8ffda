// Package v1alpha1 holds the wire types of the article engine API. The JSON
// field names double as the persisted shape of the job field groups, so they
// must stay stable across releases.
package v1alpha1

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

func StringToJobStatus(s string) JobStatus {
	switch s {
	case string(JobStatusRunning):
		return JobStatusRunning
	case string(JobStatusCompleted):
		return JobStatusCompleted
	case string(JobStatusFailed):
		return JobStatusFailed
	default:
		return JobStatusPending
	}
}

// ArticleInput is the immutable request part of a job.
type ArticleInput struct {
	Topic           string `json:"topic" validate:"required,topic"`
	TargetWordCount int    `json:"target_word_count" validate:"required,gt=0"`
	Language        string `json:"language" validate:"required,language"`
}

// SERPResult is a single ranked organic search result.
type SERPResult struct {
	Rank    int    `json:"rank"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// SERPAnalysis is the keyword/topic digest extracted from the search results.
type SERPAnalysis struct {
	PrimaryKeyword    string   `json:"primary_keyword"`
	SecondaryKeywords []string `json:"secondary_keywords"`
	Topics            []string `json:"topics"`
	FAQs              []string `json:"faqs"`
}

type OutlineSection struct {
	HeadingLevel int    `json:"heading_level"`
	Heading      string `json:"heading"`
	Slug         string `json:"slug"`
	Summary      string `json:"summary"`
}

// Outline carries the H1 title plus the ordered H2/H3 sections.
type Outline struct {
	Title    string           `json:"title"`
	Sections []OutlineSection `json:"sections"`
}

type InternalLink struct {
	AnchorText string `json:"anchor_text"`
	TargetSlug string `json:"target_slug"`
}

type ExternalReference struct {
	Title                string `json:"title"`
	URL                  string `json:"url"`
	SuggestedSectionSlug string `json:"suggested_section_slug"`
	ContextReason        string `json:"context_reason"`
}

type SEOInfo struct {
	TitleTag           string   `json:"title_tag"`
	MetaDescription    string   `json:"meta_description"`
	PrimaryKeyword     string   `json:"primary_keyword"`
	SecondaryKeywords  []string `json:"secondary_keywords"`
	WordCountTarget    int      `json:"word_count_target"`
	EstimatedWordCount int      `json:"estimated_word_count"`
}

// Article is the finished deliverable of a job.
type Article struct {
	H1                 string              `json:"h1"`
	BodyMarkdown       string              `json:"body_markdown"`
	SEO                SEOInfo             `json:"seo"`
	InternalLinks      []InternalLink      `json:"internal_links"`
	ExternalReferences []ExternalReference `json:"external_references"`
	StructuredData     map[string]any      `json:"structured_data"`
}

// Job is the API projection of a stored job. Field groups are omitted until
// the owning pipeline stage has completed.
type Job struct {
	Id           string        `json:"id"`
	Input        ArticleInput  `json:"input"`
	Status       JobStatus     `json:"status"`
	Error        *string       `json:"error,omitempty"`
	SerpResults  []SERPResult  `json:"serp_results,omitempty"`
	SerpAnalysis *SERPAnalysis `json:"serp_analysis,omitempty"`
	Outline      *Outline      `json:"outline,omitempty"`
	Article      *Article      `json:"article,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
