package pipeline

import (
	"context"
	"fmt"

	api "github.com/contentforge/article-engine/api/v1alpha1"
	"github.com/contentforge/article-engine/internal/seo"
)

// Stage names, used in logs, metrics, and the persisted error string of a
// failed job.
const (
	StageFetchSERP       = "fetchSERP"
	StageAnalyzeSERP     = "analyzeSERP"
	StageBuildOutline    = "buildOutline"
	StageDraftArticle    = "draftArticle"
	StageValidateAndLink = "validateAndLink"
)

const minOutlineH2Sections = 3

// Stages returns the five pipeline stages in their fixed execution order.
func Stages(fetcher SearchFetcher, generator Generator, validator *seo.Validator, planner *seo.LinkPlanner, serpResultCount int) []Stage {
	return []Stage{
		NewFetchSERPStage(fetcher, serpResultCount),
		NewAnalyzeSERPStage(generator),
		NewBuildOutlineStage(generator),
		NewDraftArticleStage(generator),
		NewValidateAndLinkStage(validator, planner),
	}
}

type fetchSERPStage struct {
	fetcher SearchFetcher
	count   int
}

func NewFetchSERPStage(fetcher SearchFetcher, count int) Stage {
	return &fetchSERPStage{fetcher: fetcher, count: count}
}

func (s *fetchSERPStage) Name() string     { return StageFetchSERP }
func (s *fetchSERPStage) Owns() FieldGroup { return FieldSerpResults }

func (s *fetchSERPStage) CanSkip(c *Context) bool {
	return len(c.SerpResults) > 0
}

func (s *fetchSERPStage) Execute(ctx context.Context, c *Context) error {
	if c.Input.Topic == "" {
		return fmt.Errorf("topic required")
	}

	results, err := s.fetcher.FetchTop(ctx, c.Input.Topic, s.count)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("search returned no results for topic %q", c.Input.Topic)
	}

	c.SerpResults = results
	return nil
}

type analyzeSERPStage struct {
	generator Generator
}

func NewAnalyzeSERPStage(generator Generator) Stage {
	return &analyzeSERPStage{generator: generator}
}

func (s *analyzeSERPStage) Name() string     { return StageAnalyzeSERP }
func (s *analyzeSERPStage) Owns() FieldGroup { return FieldSerpAnalysis }

func (s *analyzeSERPStage) CanSkip(c *Context) bool {
	return c.SerpAnalysis != nil
}

func (s *analyzeSERPStage) Execute(ctx context.Context, c *Context) error {
	if len(c.SerpResults) == 0 {
		return fmt.Errorf("serp results required before analysis")
	}

	analysis, err := s.generator.GenerateAnalysis(ctx, c.Input.Topic, c.SerpResults)
	if err != nil {
		return err
	}
	if analysis == nil {
		return fmt.Errorf("generator returned no analysis")
	}

	c.SerpAnalysis = analysis
	return nil
}

type buildOutlineStage struct {
	generator Generator
}

func NewBuildOutlineStage(generator Generator) Stage {
	return &buildOutlineStage{generator: generator}
}

func (s *buildOutlineStage) Name() string     { return StageBuildOutline }
func (s *buildOutlineStage) Owns() FieldGroup { return FieldOutline }

func (s *buildOutlineStage) CanSkip(c *Context) bool {
	return c.Outline != nil
}

func (s *buildOutlineStage) Execute(ctx context.Context, c *Context) error {
	if c.SerpAnalysis == nil {
		return fmt.Errorf("serp analysis required before generating outline")
	}

	outline, err := s.generator.GenerateOutline(ctx, c.Input.Topic, *c.SerpAnalysis, c.Input.TargetWordCount)
	if err != nil {
		return err
	}
	if outline == nil {
		return fmt.Errorf("generator returned no outline")
	}
	if err := checkOutline(outline); err != nil {
		return err
	}

	c.Outline = outline
	return nil
}

// checkOutline rejects malformed generation output right away instead of
// letting it surface as a validation failure three stages later.
func checkOutline(outline *api.Outline) error {
	if outline.Title == "" {
		return fmt.Errorf("outline has no title")
	}

	h2Count := 0
	slugs := map[string]bool{}
	for i := range outline.Sections {
		section := &outline.Sections[i]
		if section.HeadingLevel == 1 {
			return fmt.Errorf("outline sections must not use heading level 1 (the title is the H1)")
		}
		if section.Slug == "" {
			section.Slug = seo.Slugify(section.Heading)
		}
		if slugs[section.Slug] {
			return fmt.Errorf("duplicate outline slug %q", section.Slug)
		}
		slugs[section.Slug] = true
		if section.HeadingLevel == 2 {
			h2Count++
		}
	}
	if h2Count < minOutlineH2Sections {
		return fmt.Errorf("outline must have at least %d H2 sections, found %d", minOutlineH2Sections, h2Count)
	}
	return nil
}

type draftArticleStage struct {
	generator Generator
}

func NewDraftArticleStage(generator Generator) Stage {
	return &draftArticleStage{generator: generator}
}

func (s *draftArticleStage) Name() string     { return StageDraftArticle }
func (s *draftArticleStage) Owns() FieldGroup { return FieldArticle }

func (s *draftArticleStage) CanSkip(c *Context) bool {
	return c.Article != nil
}

func (s *draftArticleStage) Execute(ctx context.Context, c *Context) error {
	if c.Outline == nil || c.SerpAnalysis == nil {
		return fmt.Errorf("outline and serp analysis required before drafting")
	}

	draft, err := s.generator.GenerateDraft(ctx, c.Input.Topic, *c.Outline, *c.SerpAnalysis, c.Input.TargetWordCount)
	if err != nil {
		return err
	}
	if draft == nil {
		return fmt.Errorf("generator returned no draft")
	}

	c.Article = &api.Article{
		H1:           c.Outline.Title,
		BodyMarkdown: draft.BodyMarkdown,
		SEO: api.SEOInfo{
			TitleTag:           draft.TitleTag,
			MetaDescription:    draft.MetaDescription,
			PrimaryKeyword:     c.SerpAnalysis.PrimaryKeyword,
			SecondaryKeywords:  c.SerpAnalysis.SecondaryKeywords,
			WordCountTarget:    c.Input.TargetWordCount,
			EstimatedWordCount: seo.WordCount(draft.BodyMarkdown),
		},
		InternalLinks:      []api.InternalLink{},
		ExternalReferences: []api.ExternalReference{},
		StructuredData:     map[string]any{},
	}
	return nil
}

type validateAndLinkStage struct {
	validator *seo.Validator
	planner   *seo.LinkPlanner
}

func NewValidateAndLinkStage(validator *seo.Validator, planner *seo.LinkPlanner) Stage {
	return &validateAndLinkStage{validator: validator, planner: planner}
}

func (s *validateAndLinkStage) Name() string     { return StageValidateAndLink }
func (s *validateAndLinkStage) Owns() FieldGroup { return FieldArticle }

// CanSkip: planned links are persisted only together with a passing
// validation, so their presence marks the article as final.
func (s *validateAndLinkStage) CanSkip(c *Context) bool {
	return c.Article != nil &&
		len(c.Article.InternalLinks) > 0 &&
		len(c.Article.ExternalReferences) > 0
}

func (s *validateAndLinkStage) Execute(ctx context.Context, c *Context) error {
	if c.Article == nil {
		return fmt.Errorf("article required for validation")
	}
	if c.SerpAnalysis == nil || c.Outline == nil {
		return fmt.Errorf("serp analysis and outline required for link planning")
	}

	// plan links first: the minimum-count rules judge the planner's output
	plan := s.planner.Plan(*c.Article, c.SerpResults, *c.SerpAnalysis, *c.Outline)

	article := *c.Article
	article.InternalLinks = plan.InternalLinks
	article.ExternalReferences = plan.ExternalReferences
	article.StructuredData = plan.StructuredData
	article.SEO.EstimatedWordCount = seo.WordCount(article.BodyMarkdown)

	if violations := s.validator.Validate(article, c.Input.TargetWordCount); len(violations) > 0 {
		return seo.NewValidationError(violations)
	}

	c.Article = &article
	return nil
}
