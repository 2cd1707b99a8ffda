// Package seo holds the local engines gating article completion: the
// validation rule engine and the link planner. Both are pure, deterministic
// computations over the article and its search context.
package seo

import (
	"fmt"
	"strings"

	api "github.com/contentforge/article-engine/api/v1alpha1"
)

// Violation is a single failed SEO rule with a human-readable message.
type Violation struct {
	Rule    string `json:"rule_name"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Message)
}

// Rule names, also used as the rule_name of the produced violations.
const (
	RuleKeywordInH1      = "keyword-in-h1"
	RuleKeywordInLead    = "keyword-in-lead"
	RuleKeywordInH2      = "keyword-in-h2"
	RuleWordCountBand    = "word-count-band"
	RuleHeadingStructure = "heading-structure"
	RuleLinkMinimums     = "link-minimums"
)

const (
	leadWordWindow     = 150
	h2OverlapThreshold = 0.5
	wordCountLowerBand = 0.8
	wordCountUpperBand = 1.2
	minH2Headings      = 3
	minInternalLinks   = 3
	minExternalRefs    = 2
)

type ruleFunc func(article api.Article, targetWordCount int) []Violation

// Validator evaluates an article against the fixed SEO rule set. Rules never
// short-circuit: every violation is collected and reported.
type Validator struct {
	rules []ruleFunc
}

func NewValidator() *Validator {
	return &Validator{
		rules: []ruleFunc{
			checkKeywordInH1,
			checkKeywordInLead,
			checkKeywordInH2,
			checkWordCountBand,
			checkHeadingStructure,
			checkLinkMinimums,
		},
	}
}

// Validate runs all rules and returns the collected violations. An empty
// result means the article passes.
func (v *Validator) Validate(article api.Article, targetWordCount int) []Violation {
	var violations []Violation
	for _, rule := range v.rules {
		violations = append(violations, rule(article, targetWordCount)...)
	}
	return violations
}

func checkKeywordInH1(article api.Article, _ int) []Violation {
	keyword := strings.ToLower(article.SEO.PrimaryKeyword)
	if !strings.Contains(strings.ToLower(article.H1), keyword) {
		return []Violation{{
			Rule:    RuleKeywordInH1,
			Message: fmt.Sprintf("primary keyword %q not found in H1", article.SEO.PrimaryKeyword),
		}}
	}
	return nil
}

func checkKeywordInLead(article api.Article, _ int) []Violation {
	keyword := strings.ToLower(article.SEO.PrimaryKeyword)
	words := strings.Fields(article.BodyMarkdown)
	if len(words) > leadWordWindow {
		words = words[:leadWordWindow]
	}
	lead := strings.ToLower(strings.Join(words, " "))
	if !strings.Contains(lead, keyword) {
		return []Violation{{
			Rule:    RuleKeywordInLead,
			Message: fmt.Sprintf("primary keyword %q not found in first %d words", article.SEO.PrimaryKeyword, leadWordWindow),
		}}
	}
	return nil
}

// checkKeywordInH2 accepts either an exact (case-insensitive) occurrence of
// the keyword in an H2, or a heading sharing at least half of the keyword's
// word set. With no H2 headings at all the heading-structure rule reports
// instead.
func checkKeywordInH2(article api.Article, _ int) []Violation {
	headings := ExtractHeadings(article.BodyMarkdown, 2)
	if len(headings) == 0 {
		return nil
	}

	keyword := strings.ToLower(article.SEO.PrimaryKeyword)
	keywordTokens := Tokens(keyword)
	for _, heading := range headings {
		headingLower := strings.ToLower(heading)
		if strings.Contains(headingLower, keyword) {
			return nil
		}
		if overlapRatio(keywordTokens, Tokens(headingLower)) >= h2OverlapThreshold {
			return nil
		}
	}

	return []Violation{{
		Rule:    RuleKeywordInH2,
		Message: fmt.Sprintf("primary keyword %q not found in any H2 heading (or close match)", article.SEO.PrimaryKeyword),
	}}
}

func checkWordCountBand(article api.Article, targetWordCount int) []Violation {
	wordCount := WordCount(article.BodyMarkdown)
	minWords := wordCountLowerBand * float64(targetWordCount)
	maxWords := wordCountUpperBand * float64(targetWordCount)

	switch {
	case float64(wordCount) < minWords:
		return []Violation{{
			Rule:    RuleWordCountBand,
			Message: fmt.Sprintf("word count %d is below minimum %d (80%% of target %d)", wordCount, int(minWords), targetWordCount),
		}}
	case float64(wordCount) > maxWords:
		return []Violation{{
			Rule:    RuleWordCountBand,
			Message: fmt.Sprintf("word count %d exceeds maximum %d (120%% of target %d)", wordCount, int(maxWords), targetWordCount),
		}}
	}
	return nil
}

func checkHeadingStructure(article api.Article, _ int) []Violation {
	var violations []Violation

	h1Count := len(ExtractHeadings(article.BodyMarkdown, 1))
	if h1Count != 1 {
		violations = append(violations, Violation{
			Rule:    RuleHeadingStructure,
			Message: fmt.Sprintf("expected exactly 1 H1 heading, found %d", h1Count),
		})
	}

	h2Count := len(ExtractHeadings(article.BodyMarkdown, 2))
	if h2Count < minH2Headings {
		violations = append(violations, Violation{
			Rule:    RuleHeadingStructure,
			Message: fmt.Sprintf("expected at least %d H2 headings, found %d", minH2Headings, h2Count),
		})
	}

	return violations
}

func checkLinkMinimums(article api.Article, _ int) []Violation {
	var violations []Violation

	if len(article.InternalLinks) < minInternalLinks {
		violations = append(violations, Violation{
			Rule:    RuleLinkMinimums,
			Message: fmt.Sprintf("expected at least %d internal links, found %d", minInternalLinks, len(article.InternalLinks)),
		})
	}
	if len(article.ExternalReferences) < minExternalRefs {
		violations = append(violations, Violation{
			Rule:    RuleLinkMinimums,
			Message: fmt.Sprintf("expected at least %d external references, found %d", minExternalRefs, len(article.ExternalReferences)),
		})
	}

	return violations
}
