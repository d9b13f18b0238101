package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agenthands/metasearch/internal/core/model"
)

const defaultExaURL = "https://api.exa.ai"

// ExaAdapter calls the Exa semantic search API.
type ExaAdapter struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewExaAdapter(apiKey, apiURL string) (*ExaAdapter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("exa api key is required")
	}
	if strings.TrimSpace(apiURL) == "" {
		apiURL = defaultExaURL
	}
	return &ExaAdapter{
		apiKey: apiKey,
		apiURL: strings.TrimRight(apiURL, "/"),
		client: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (a *ExaAdapter) Name() model.Source { return model.SourceExa }

type exaRequest struct {
	Query      string      `json:"query"`
	NumResults int         `json:"numResults"`
	Contents   exaContents `json:"contents"`
}

type exaContents struct {
	Text bool `json:"text"`
}

type exaResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Text    string `json:"text"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

func (a *ExaAdapter) Search(ctx context.Context, query string, maxResults int) ([]model.Hit, error) {
	payload, err := json.Marshal(exaRequest{
		Query:      query,
		NumResults: maxResults,
		Contents:   exaContents{Text: true},
	})
	if err != nil {
		return nil, model.NewProviderError(model.SourceExa, model.KindMalformed, fmt.Errorf("marshal exa request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, model.NewProviderError(model.SourceExa, model.KindNetwork, fmt.Errorf("create exa request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, model.NewProviderError(model.SourceExa, kindForTransport(err), fmt.Errorf("exa request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, model.NewProviderError(model.SourceExa, kindForStatus(resp.StatusCode),
			fmt.Errorf("exa request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var decoded exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, model.NewProviderError(model.SourceExa, model.KindMalformed, fmt.Errorf("decode exa response: %w", err))
	}

	hits := make([]model.Hit, 0, len(decoded.Results))
	for _, item := range decoded.Results {
		if item.URL == "" {
			continue
		}
		snippet := item.Text
		if strings.TrimSpace(snippet) == "" {
			snippet = item.Snippet
		}
		hits = append(hits, model.Hit{
			Source:  model.SourceExa,
			Title:   CleanText(item.Title),
			URL:     item.URL,
			Snippet: CleanText(snippet),
		})
	}
	return hits, nil
}
