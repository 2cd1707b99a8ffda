package llm

import (
	"context"
	"fmt"
	"strings"

	api "github.com/contentforge/article-engine/api/v1alpha1"
	"github.com/contentforge/article-engine/internal/pipeline"
)

const (
	jsonSystemPrompt   = "You are a helpful assistant that returns only valid JSON."
	writerSystemPrompt = "You are a helpful assistant that writes high-quality, SEO-optimized content."

	maxKeywordsInOutlinePrompt = 10
)

// Make sure we conform to the pipeline boundary
var _ pipeline.Generator = (*Client)(nil)

// GenerateAnalysis extracts keywords, topics, and FAQs from the ranked search
// results.
func (c *Client) GenerateAnalysis(ctx context.Context, topic string, results []api.SERPResult) (*api.SERPAnalysis, error) {
	var serpText strings.Builder
	for _, r := range results {
		fmt.Fprintf(&serpText, "Rank %d: %s\n%s\n\n", r.Rank, r.Title, r.Snippet)
	}

	prompt := fmt.Sprintf(`Analyze the following search results for the topic %q:

%s
Extract and return JSON with:
- primary_keyword: The main keyword (string)
- secondary_keywords: 10-20 related keywords (array of strings)
- topics: 8-12 key subtopics to cover (array of strings)
- faqs: 5-8 frequently asked questions (array of strings)

Return only valid JSON with exactly these keys.`, topic, serpText.String())

	var analysis api.SERPAnalysis
	if err := c.GenerateJSON(ctx, jsonSystemPrompt, prompt, &analysis); err != nil {
		return nil, err
	}
	if analysis.PrimaryKeyword == "" {
		return nil, NewGenerationError(fmt.Errorf("analysis missing primary_keyword"))
	}
	return &analysis, nil
}

// GenerateOutline produces the article outline: an H1 title plus H2/H3
// sections with slugs and summaries.
func (c *Client) GenerateOutline(ctx context.Context, topic string, analysis api.SERPAnalysis, targetWordCount int) (*api.Outline, error) {
	secondary := analysis.SecondaryKeywords
	if len(secondary) > maxKeywordsInOutlinePrompt {
		secondary = secondary[:maxKeywordsInOutlinePrompt]
	}

	prompt := fmt.Sprintf(`Create a detailed SEO-optimized article outline for the topic: %q

Primary keyword: %s
Secondary keywords: %s
Key topics to cover: %s
Target word count: %d

Requirements:
- Exactly one H1 (provided as the title field)
- Multiple H2 sections (at least 3) with heading_level=2
- Optional H3 subsections with heading_level=3
- Each section needs heading_level, heading, a URL-friendly slug (lowercase, hyphens), and a short summary of what it covers

Return only valid JSON matching this structure:
{"title": "string", "sections": [{"heading_level": 2, "heading": "string", "slug": "string", "summary": "string"}]}`,
		topic,
		analysis.PrimaryKeyword,
		strings.Join(secondary, ", "),
		strings.Join(analysis.Topics, ", "),
		targetWordCount,
	)

	var outline api.Outline
	if err := c.GenerateJSON(ctx, jsonSystemPrompt, prompt, &outline); err != nil {
		return nil, err
	}
	return &outline, nil
}

// GenerateDraft writes the article body against the outline and then asks
// for the SEO metadata in a second generation.
func (c *Client) GenerateDraft(ctx context.Context, topic string, outline api.Outline, analysis api.SERPAnalysis, targetWordCount int) (*pipeline.Draft, error) {
	var outlineText strings.Builder
	outlineText.WriteString(outline.Title + "\n\n")
	for _, section := range outline.Sections {
		outlineText.WriteString(strings.Repeat("#", section.HeadingLevel) + " " + section.Heading + "\n")
		outlineText.WriteString(section.Summary + "\n\n")
	}

	minWords := targetWordCount * 8 / 10
	maxWords := targetWordCount * 12 / 10
	wordsPerSection := targetWordCount / max(len(outline.Sections), 1)
	if wordsPerSection < 200 {
		wordsPerSection = 200
	}

	bodyPrompt := fmt.Sprintf(`Write a complete, SEO-optimized article in markdown format.

Topic: %s
Primary keyword: %s
Secondary keywords: %s
Target word count: %d words (CRITICAL: you must write between %d and %d words)

Use this exact outline structure:
%s
Requirements:
1. Use the exact headings from the outline above (same text, same heading levels)
2. Include the primary keyword in the H1, in the first 100-150 words, and in at least one H2 heading
3. Use secondary keywords naturally throughout (no keyword stuffing)
4. Write between %d and %d words total; aim for roughly %d words per section
5. Write in a human, conversational tone with detailed explanations and examples
6. Use proper markdown formatting and start with the H1 heading`,
		topic,
		analysis.PrimaryKeyword,
		strings.Join(analysis.SecondaryKeywords, ", "),
		targetWordCount,
		minWords,
		maxWords,
		outlineText.String(),
		minWords,
		maxWords,
		wordsPerSection,
	)

	body, err := c.GenerateText(ctx, writerSystemPrompt, bodyPrompt)
	if err != nil {
		return nil, err
	}

	metaPrompt := fmt.Sprintf(`Generate SEO metadata for this article:

Topic: %s
Primary keyword: %s
Article title: %s

Return JSON with:
- title_tag: SEO title (50-60 characters, includes the primary keyword)
- meta_description: Meta description (150-160 characters, includes the primary keyword once)

Return only valid JSON: {"title_tag": "...", "meta_description": "..."}`,
		topic,
		analysis.PrimaryKeyword,
		outline.Title,
	)

	var meta struct {
		TitleTag        string `json:"title_tag"`
		MetaDescription string `json:"meta_description"`
	}
	if err := c.GenerateJSON(ctx, jsonSystemPrompt, metaPrompt, &meta); err != nil {
		return nil, err
	}

	return &pipeline.Draft{
		BodyMarkdown:    body,
		TitleTag:        meta.TitleTag,
		MetaDescription: meta.MetaDescription,
	}, nil
}
