// Package serp is the search-fetch collaborator: a thin client over a
// SerpAPI-compatible endpoint returning ranked organic results.
package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	api "github.com/contentforge/article-engine/api/v1alpha1"
	"github.com/contentforge/article-engine/internal/config"
)

// the upstream occasionally returns fewer organic results than asked for, so
// always request at least this many and trim afterwards
const minRequestCount = 15

// FetchError marks a network or quota failure of the search collaborator.
type FetchError struct {
	error
}

func NewFetchError(err error) *FetchError {
	return &FetchError{errors.Wrap(err, "serp fetch failed")}
}

func (e *FetchError) Unwrap() error {
	return e.error
}

type Client struct {
	baseUrl string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseUrl: cfg.Serp.BaseUrl,
		apiKey:  cfg.Serp.ApiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type organicResult struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

// FetchTop returns up to count ranked results for the topic.
func (c *Client) FetchTop(ctx context.Context, topic string, count int) ([]api.SERPResult, error) {
	query := url.Values{}
	query.Set("q", topic)
	query.Set("api_key", c.apiKey)
	query.Set("engine", "google")
	query.Set("num", strconv.Itoa(max(count, minRequestCount)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+"?"+query.Encode(), nil)
	if err != nil {
		return nil, NewFetchError(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, NewFetchError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewFetchError(fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewFetchError(err)
	}

	results := make([]api.SERPResult, 0, count)
	for i, r := range payload.OrganicResults {
		if i >= count {
			break
		}
		results = append(results, api.SERPResult{
			Rank:    i + 1,
			URL:     r.Link,
			Title:   r.Title,
			Snippet: r.Snippet,
		})
	}
	return results, nil
}
