package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/agenthands/metasearch/internal/core/model"
)

// Custom Search returns at most ten results per call.
const googleMaxNum = 10

// GoogleAdapter queries a Programmable Search Engine through the Custom
// Search JSON API.
type GoogleAdapter struct {
	svc *customsearch.Service
	cx  string
}

func NewGoogleAdapter(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*GoogleAdapter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("google api key is required")
	}
	if strings.TrimSpace(cx) == "" {
		return nil, fmt.Errorf("google search engine id (cx) is required")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search client: %w", err)
	}
	return &GoogleAdapter{svc: svc, cx: cx}, nil
}

func (a *GoogleAdapter) Name() model.Source { return model.SourceGoogle }

func (a *GoogleAdapter) Search(ctx context.Context, query string, maxResults int) ([]model.Hit, error) {
	num := min(max(maxResults, 1), googleMaxNum)

	res, err := a.svc.Cse.List().Cx(a.cx).Q(query).Num(int64(num)).Context(ctx).Do()
	if err != nil {
		return nil, googleError(model.SourceGoogle, err)
	}

	hits := make([]model.Hit, 0, len(res.Items))
	for _, item := range res.Items {
		if item == nil || item.Link == "" {
			continue
		}
		hits = append(hits, model.Hit{
			Source:  model.SourceGoogle,
			Title:   CleanText(item.Title),
			URL:     item.Link,
			Snippet: CleanText(item.Snippet),
		})
	}
	return hits, nil
}

// googleError classifies errors from google.golang.org/api clients.
func googleError(src model.Source, err error) *model.ProviderError {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		kind := kindForStatus(gerr.Code)
		for _, item := range gerr.Errors {
			switch item.Reason {
			case "dailyLimitExceeded", "quotaExceeded", "rateLimitExceeded", "userRateLimitExceeded":
				kind = model.KindQuota
			}
		}
		return model.NewProviderError(src, kind, err)
	}
	return model.NewProviderError(src, kindForTransport(err), err)
}
