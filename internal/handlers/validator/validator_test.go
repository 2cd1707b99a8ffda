package validator

import (
	"testing"

	api "github.com/contentforge/article-engine/api/v1alpha1"
)

func TestArticleInputValidators(t *testing.T) {
	tests := []struct {
		name       string
		input      api.ArticleInput
		shouldFail bool
	}{
		{
			name: "validation ok",
			input: api.ArticleInput{
				Topic:           "best productivity tools for remote teams",
				TargetWordCount: 1500,
				Language:        "en",
			},
			shouldFail: false,
		},
		{
			name: "validation ko -- empty topic",
			input: api.ArticleInput{
				TargetWordCount: 1500,
				Language:        "en",
			},
			shouldFail: true,
		},
		{
			name: "validation ko -- blank topic",
			input: api.ArticleInput{
				Topic:           "   ",
				TargetWordCount: 1500,
				Language:        "en",
			},
			shouldFail: true,
		},
		{
			name: "validation ko -- missing word count",
			input: api.ArticleInput{
				Topic:    "best productivity tools",
				Language: "en",
			},
			shouldFail: true,
		},
		{
			name: "validation ko -- negative word count",
			input: api.ArticleInput{
				Topic:           "best productivity tools",
				TargetWordCount: -100,
				Language:        "en",
			},
			shouldFail: true,
		},
		{
			name: "validation ko -- unsupported language",
			input: api.ArticleInput{
				Topic:           "best productivity tools",
				TargetWordCount: 1500,
				Language:        "xx",
			},
			shouldFail: true,
		},
		{
			name: "validation ko -- missing language",
			input: api.ArticleInput{
				Topic:           "best productivity tools",
				TargetWordCount: 1500,
			},
			shouldFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.Register(NewArticleValidationRules()...)

			err := v.Struct(tt.input)
			if tt.shouldFail && err == nil {
				t.Errorf("expected validation to fail")
			}
			if !tt.shouldFail && err != nil {
				t.Errorf("expected validation to pass, got: %v", err)
			}
		})
	}
}
