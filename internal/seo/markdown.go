package seo

import (
	"regexp"
	"strings"

	funk "github.com/thoas/go-funk"
)

var (
	headingPatterns = map[int]*regexp.Regexp{
		1: regexp.MustCompile(`(?m)^#{1}\s+(.+)$`),
		2: regexp.MustCompile(`(?m)^#{2}\s+(.+)$`),
		3: regexp.MustCompile(`(?m)^#{3}\s+(.+)$`),
	}

	imagePattern      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headingMarker     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	listMarker        = regexp.MustCompile(`(?m)^\s*([-+*]|\d+\.)\s+`)
	blockquoteMarker  = regexp.MustCompile(`(?m)^>\s*`)
	codeFenceMarker   = regexp.MustCompile("(?m)^```.*$")
	emphasisCharacter = strings.NewReplacer("*", "", "_", "", "`", "")
)

// ExtractHeadings returns the text of every heading of exactly the given
// level, in document order. Supported levels are 1 to 3.
func ExtractHeadings(markdown string, level int) []string {
	re, ok := headingPatterns[level]
	if !ok {
		return nil
	}
	matches := re.FindAllStringSubmatch(markdown, -1)
	headings := make([]string, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, strings.TrimSpace(m[1]))
	}
	return headings
}

// StripMarkdown reduces a markdown document to its visible words: heading and
// list markers go away, links and images keep their anchor text.
func StripMarkdown(markdown string) string {
	s := codeFenceMarker.ReplaceAllString(markdown, "")
	s = imagePattern.ReplaceAllString(s, "$1")
	s = linkPattern.ReplaceAllString(s, "$1")
	s = headingMarker.ReplaceAllString(s, "")
	s = listMarker.ReplaceAllString(s, "")
	s = blockquoteMarker.ReplaceAllString(s, "")
	return emphasisCharacter.Replace(s)
}

// WordCount counts whitespace-separated words after markdown syntax is
// stripped.
func WordCount(markdown string) int {
	return len(strings.Fields(StripMarkdown(markdown)))
}

// Tokens lowercases the text and splits it into words with surrounding
// punctuation trimmed. Duplicates are kept.
func Tokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.Trim(f, `.,!?:;()[]"'`)
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Slugify turns a heading into a URL-friendly slug.
func Slugify(text string) string {
	return strings.Join(Tokens(text), "-")
}

// overlapRatio is the share of the keyword's word set that also appears in
// the candidate's word set.
func overlapRatio(keywordTokens, candidateTokens []string) float64 {
	keywordSet := funk.UniqString(keywordTokens)
	if len(keywordSet) == 0 {
		return 0
	}
	shared := funk.IntersectString(keywordSet, funk.UniqString(candidateTokens))
	return float64(len(shared)) / float64(len(keywordSet))
}
