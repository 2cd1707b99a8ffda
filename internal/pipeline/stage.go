package pipeline

import (
	"context"

	api "github.com/contentforge/article-engine/api/v1alpha1"
)

// FieldGroup names the job column a stage owns. Ownership is disjoint: no two
// stages write the same group, except validateAndLink which finalizes the
// article the draft stage created.
type FieldGroup string

const (
	FieldSerpResults  FieldGroup = "serp_results"
	FieldSerpAnalysis FieldGroup = "serp_analysis"
	FieldOutline      FieldGroup = "outline"
	FieldArticle      FieldGroup = "article"
)

// Stage is one unit of pipeline work.
//
// CanSkip must be a pure function of the context's populated fields: no side
// effects, no external calls. Execute populates exactly the stage's owned
// field group on the context and must leave every other field untouched; on
// error the owned field stays absent so a later run re-triggers the stage.
type Stage interface {
	Name() string
	Owns() FieldGroup
	CanSkip(c *Context) bool
	Execute(ctx context.Context, c *Context) error
}

// SearchFetcher is the search-fetch collaborator boundary.
type SearchFetcher interface {
	FetchTop(ctx context.Context, topic string, count int) ([]api.SERPResult, error)
}

// Draft is the text-generation output the draft stage turns into an article:
// the markdown body plus the generated SEO metadata, links still unplanned.
type Draft struct {
	BodyMarkdown    string
	TitleTag        string
	MetaDescription string
}

// Generator is the text-generation collaborator boundary. Each method issues
// one generation request and returns structured output; malformed or refused
// output surfaces as an error.
type Generator interface {
	GenerateAnalysis(ctx context.Context, topic string, results []api.SERPResult) (*api.SERPAnalysis, error)
	GenerateOutline(ctx context.Context, topic string, analysis api.SERPAnalysis, targetWordCount int) (*api.Outline, error)
	GenerateDraft(ctx context.Context, topic string, outline api.Outline, analysis api.SERPAnalysis, targetWordCount int) (*Draft, error)
}
