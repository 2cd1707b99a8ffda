package seo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/contentforge/article-engine/api/v1alpha1"
)

func plannerOutline() api.Outline {
	return api.Outline{
		Title: "Best productivity tools for remote teams",
		Sections: []api.OutlineSection{
			{HeadingLevel: 2, Heading: "Asynchronous communication habits", Slug: "asynchronous-communication-habits", Summary: "How async communication reduces meetings."},
			{HeadingLevel: 2, Heading: "Project management software", Slug: "project-management-software", Summary: "Boards and timelines."},
			{HeadingLevel: 2, Heading: "Time zone coordination", Slug: "time-zone-coordination", Summary: "Scheduling across regions."},
			{HeadingLevel: 2, Heading: "Security practices", Slug: "security-practices", Summary: "Access control for distributed teams."},
		},
	}
}

func plannerAnalysis() api.SERPAnalysis {
	return api.SERPAnalysis{
		PrimaryKeyword:    "productivity tools",
		SecondaryKeywords: []string{"project management software", "async communication"},
		Topics:            []string{"time zone scheduling"},
		FAQs:              []string{"what are the best productivity tools"},
	}
}

func plannerResults() []api.SERPResult {
	return []api.SERPResult{
		{Rank: 1, URL: "https://a.example.com", Title: "Time zone scheduling guide", Snippet: "how to schedule meetings"},
		{Rank: 2, URL: "https://b.example.com", Title: "Unrelated cooking recipes", Snippet: "pasta for dinner"},
		{Rank: 3, URL: "https://c.example.com", Title: "Best productivity tools list", Snippet: "tools compared"},
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	planner := NewLinkPlanner()
	article := api.Article{H1: "Best productivity tools for remote teams", SEO: api.SEOInfo{MetaDescription: "A guide."}}

	first := planner.Plan(article, plannerResults(), plannerAnalysis(), plannerOutline())
	second := planner.Plan(article, plannerResults(), plannerAnalysis(), plannerOutline())

	assert.Equal(t, first, second)
}

func TestPlanInternalLinksMatchesAnchors(t *testing.T) {
	planner := NewLinkPlanner()

	links := planner.planInternalLinks(plannerAnalysis(), plannerOutline())

	require.Len(t, links, 3)
	assert.Equal(t, []api.InternalLink{
		{AnchorText: "async communication", TargetSlug: "asynchronous-communication-habits"},
		{AnchorText: "project management software", TargetSlug: "project-management-software"},
		{AnchorText: "time zone scheduling", TargetSlug: "time-zone-coordination"},
	}, links)
}

func TestPlanInternalLinksBackfillsFromHeadings(t *testing.T) {
	planner := NewLinkPlanner()
	analysis := api.SERPAnalysis{
		PrimaryKeyword:    "gardening",
		SecondaryKeywords: []string{"soil ph"},
		Topics:            []string{"composting basics"},
	}

	links := planner.planInternalLinks(analysis, plannerOutline())

	require.Len(t, links, 3)
	for i, link := range links {
		section := plannerOutline().Sections[i]
		assert.Equal(t, section.Heading, link.AnchorText)
		assert.Equal(t, section.Slug, link.TargetSlug)
	}
}

func TestPlanInternalLinksSkipsTitleSections(t *testing.T) {
	planner := NewLinkPlanner()
	outline := plannerOutline()
	outline.Sections = append([]api.OutlineSection{
		{HeadingLevel: 1, Heading: "Best productivity tools for remote teams", Slug: "title"},
	}, outline.Sections...)

	links := planner.planInternalLinks(plannerAnalysis(), outline)

	for _, link := range links {
		assert.NotEqual(t, "title", link.TargetSlug)
	}
}

func TestPlanExternalReferences(t *testing.T) {
	planner := NewLinkPlanner()

	refs := planner.planExternalReferences(plannerResults(), plannerAnalysis(), plannerOutline())

	require.Len(t, refs, 2)
	assert.Equal(t, "https://a.example.com", refs[0].URL)
	assert.Equal(t, "time-zone-coordination", refs[0].SuggestedSectionSlug)
	assert.Equal(t, "https://c.example.com", refs[1].URL)
	assert.NotEmpty(t, refs[1].ContextReason)
}

func TestPlanExternalReferencesDeduplicatesURLs(t *testing.T) {
	planner := NewLinkPlanner()
	results := []api.SERPResult{
		{Rank: 1, URL: "https://a.example.com", Title: "Time zone scheduling guide", Snippet: "how to schedule meetings"},
		{Rank: 2, URL: "https://a.example.com", Title: "Time zone scheduling guide", Snippet: "mirror of the same page"},
		{Rank: 3, URL: "https://b.example.com", Title: "Unrelated cooking recipes", Snippet: "pasta for dinner"},
	}

	refs := planner.planExternalReferences(results, plannerAnalysis(), plannerOutline())

	require.Len(t, refs, 2)
	assert.Equal(t, "https://a.example.com", refs[0].URL)
	assert.Equal(t, "https://b.example.com", refs[1].URL)
}

func TestPlanExternalReferencesBackfillsFromTopRanks(t *testing.T) {
	planner := NewLinkPlanner()
	results := []api.SERPResult{
		{Rank: 2, URL: "https://second.example.com", Title: "Completely unrelated page", Snippet: "nothing useful"},
		{Rank: 1, URL: "https://first.example.com", Title: "Another unrelated page", Snippet: "still nothing"},
	}

	refs := planner.planExternalReferences(results, plannerAnalysis(), plannerOutline())

	require.Len(t, refs, 2)
	assert.Equal(t, "https://first.example.com", refs[0].URL)
	assert.Equal(t, "https://second.example.com", refs[1].URL)
}

func TestPlanExternalReferencesEmptySERP(t *testing.T) {
	planner := NewLinkPlanner()
	assert.Empty(t, planner.planExternalReferences(nil, plannerAnalysis(), plannerOutline()))
}

func TestBuildStructuredData(t *testing.T) {
	secondary := []string{"one", "two", "three", "four", "five", "six", "seven"}

	data := buildStructuredData("The Headline", "The description.", "primary", secondary)

	assert.Equal(t, "https://schema.org", data["@context"])
	assert.Equal(t, "BlogPosting", data["@type"])
	assert.Equal(t, "The Headline", data["headline"])
	assert.Equal(t, "The description.", data["description"])
	assert.Equal(t, "primary, one, two, three, four, five", data["keywords"])
}
