package seo

import (
	"fmt"
	"sort"
	"strings"

	funk "github.com/thoas/go-funk"

	api "github.com/contentforge/article-engine/api/v1alpha1"
)

const (
	maxInternalLinks = 5
	maxExternalRefs  = 4

	// share of a topic/FAQ word set a search result must cover to count as
	// a citable reference for it
	referenceRelevanceThreshold = 0.5

	structuredDataKeywordCap = 5
)

// LinkPlan is the output of one planning pass: the links to weave into the
// article plus its JSON-LD object.
type LinkPlan struct {
	InternalLinks      []api.InternalLink
	ExternalReferences []api.ExternalReference
	StructuredData     map[string]any
}

// LinkPlanner proposes internal links, external references, and structured
// data for a drafted article. Planning is deterministic: the same inputs
// always produce the same plan, which keeps resumed runs reproducible.
type LinkPlanner struct{}

func NewLinkPlanner() *LinkPlanner {
	return &LinkPlanner{}
}

func (p *LinkPlanner) Plan(article api.Article, serpResults []api.SERPResult, analysis api.SERPAnalysis, outline api.Outline) LinkPlan {
	return LinkPlan{
		InternalLinks:      p.planInternalLinks(analysis, outline),
		ExternalReferences: p.planExternalReferences(serpResults, analysis, outline),
		StructuredData:     buildStructuredData(article.H1, article.SEO.MetaDescription, analysis.PrimaryKeyword, analysis.SecondaryKeywords),
	}
}

// planInternalLinks maps outline sections to anchor phrases drawn from the
// secondary keywords and topics. Sections whose vocabulary overlaps an anchor
// come first; if fewer than three match, remaining sections are linked under
// their own heading so the article never starves for internal links while
// source material exists.
func (p *LinkPlanner) planInternalLinks(analysis api.SERPAnalysis, outline api.Outline) []api.InternalLink {
	anchors := append(append([]string{}, analysis.SecondaryKeywords...), analysis.Topics...)

	var sections []api.OutlineSection
	for _, s := range outline.Sections {
		if s.HeadingLevel != 1 {
			sections = append(sections, s)
		}
	}

	var links []api.InternalLink
	linked := map[string]bool{}

	for _, section := range sections {
		if len(links) >= maxInternalLinks {
			break
		}
		sectionTokens := Tokens(section.Heading + " " + section.Summary)

		bestAnchor := ""
		bestScore := 0
		for _, anchor := range anchors {
			score := len(funk.IntersectString(funk.UniqString(Tokens(anchor)), funk.UniqString(sectionTokens)))
			if score > bestScore {
				bestScore = score
				bestAnchor = anchor
			}
		}
		if bestScore > 0 {
			links = append(links, api.InternalLink{AnchorText: bestAnchor, TargetSlug: section.Slug})
			linked[section.Slug] = true
		}
	}

	for _, section := range sections {
		if len(links) >= minInternalLinks {
			break
		}
		if linked[section.Slug] {
			continue
		}
		links = append(links, api.InternalLink{AnchorText: section.Heading, TargetSlug: section.Slug})
		linked[section.Slug] = true
	}

	return links
}

// planExternalReferences picks up to four search results, best ranked first,
// whose title/snippet covers a topic or FAQ beyond the relevance threshold.
// Each pick is annotated with the outline section it supports. When fewer
// than two results clear the threshold, the top-ranked leftovers fill in so
// an otherwise sound article is not failed for a thin SERP.
func (p *LinkPlanner) planExternalReferences(serpResults []api.SERPResult, analysis api.SERPAnalysis, outline api.Outline) []api.ExternalReference {
	if len(serpResults) == 0 {
		return nil
	}

	ranked := make([]api.SERPResult, len(serpResults))
	copy(ranked, serpResults)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })

	candidates := append(append([]string{}, analysis.Topics...), analysis.FAQs...)

	var refs []api.ExternalReference
	used := map[string]bool{}

	for _, result := range ranked {
		if len(refs) >= maxExternalRefs {
			break
		}
		if used[result.URL] {
			continue
		}
		resultTokens := Tokens(result.Title + " " + result.Snippet)

		relevant := false
		for _, candidate := range candidates {
			if overlapRatio(Tokens(candidate), resultTokens) >= referenceRelevanceThreshold {
				relevant = true
				break
			}
		}
		if !relevant {
			continue
		}

		section := bestSectionFor(result, outline)
		refs = append(refs, newExternalReference(result, section))
		used[result.URL] = true
	}

	// backfill from the top of the ranking when relevance alone leaves
	// fewer than the validation minimum
	for _, result := range ranked {
		if len(refs) >= minExternalRefs {
			break
		}
		if used[result.URL] {
			continue
		}
		section := bestSectionFor(result, outline)
		refs = append(refs, newExternalReference(result, section))
		used[result.URL] = true
	}

	return refs
}

func newExternalReference(result api.SERPResult, section *api.OutlineSection) api.ExternalReference {
	ref := api.ExternalReference{
		Title:                result.Title,
		URL:                  result.URL,
		SuggestedSectionSlug: "introduction",
		ContextReason:        "useful reference for the topic",
	}
	if section != nil {
		ref.SuggestedSectionSlug = section.Slug
		ref.ContextReason = fmt.Sprintf("use this when discussing %s", strings.ToLower(section.Heading))
	}
	return ref
}

// bestSectionFor returns the outline section whose heading and summary share
// the most words with the result title, or the first section as a fallback.
func bestSectionFor(result api.SERPResult, outline api.Outline) *api.OutlineSection {
	resultTokens := funk.UniqString(Tokens(result.Title))

	var best *api.OutlineSection
	bestScore := 0
	for i := range outline.Sections {
		section := &outline.Sections[i]
		sectionTokens := funk.UniqString(Tokens(section.Heading + " " + section.Summary))
		score := len(funk.IntersectString(resultTokens, sectionTokens))
		if score > bestScore {
			bestScore = score
			best = section
		}
	}
	if best == nil && len(outline.Sections) > 0 {
		best = &outline.Sections[0]
	}
	return best
}

// buildStructuredData formats a schema.org BlogPosting object. Pure
// formatting, no new information.
func buildStructuredData(h1, metaDescription, primaryKeyword string, secondaryKeywords []string) map[string]any {
	keywords := []string{primaryKeyword}
	for i, kw := range secondaryKeywords {
		if i >= structuredDataKeywordCap {
			break
		}
		keywords = append(keywords, kw)
	}

	return map[string]any{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    h1,
		"description": metaDescription,
		"keywords":    strings.Join(keywords, ", "),
	}
}
