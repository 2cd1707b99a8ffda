// Package llm is the text-generation collaborator: a chat-completions client
// plus the prompt builders turning pipeline context into generation requests.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/contentforge/article-engine/internal/config"
)

// GenerationError marks a failed or malformed response from the generation
// service.
type GenerationError struct {
	error
}

func NewGenerationError(err error) *GenerationError {
	return &GenerationError{errors.Wrap(err, "text generation failed")}
}

func (e *GenerationError) Unwrap() error {
	return e.error
}

type Client struct {
	baseUrl string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseUrl: cfg.LLM.BaseUrl,
		apiKey:  cfg.LLM.ApiKey,
		model:   cfg.LLM.Model,
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

func (c *Client) complete(ctx context.Context, system, prompt string, jsonMode bool) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", NewGenerationError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/chat/completions", bytes.NewBuffer(data))
	if err != nil {
		return "", NewGenerationError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", NewGenerationError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", NewGenerationError(fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var res chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", NewGenerationError(err)
	}
	if len(res.Choices) == 0 {
		return "", NewGenerationError(fmt.Errorf("no completion returned"))
	}

	return res.Choices[0].Message.Content, nil
}

// GenerateText returns the raw completion for the prompt.
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	return c.complete(ctx, system, prompt, false)
}

// GenerateJSON requests a JSON-mode completion and decodes it into out. A
// completion that is not valid JSON for out is a GenerationError.
func (c *Client) GenerateJSON(ctx context.Context, system, prompt string, out any) error {
	content, err := c.complete(ctx, system, prompt, true)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return NewGenerationError(errors.Wrap(err, "malformed completion"))
	}
	return nil
}
