package provider

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/agenthands/metasearch/internal/core/model"
)

const youtubeWatchURL = "https://www.youtube.com/watch?v="

// YouTube caps maxResults at 50.
const youtubeMaxResults = 50

type YouTubeAdapter struct {
	svc *youtube.Service
}

func NewYouTubeAdapter(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeAdapter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("youtube api key is required")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}
	return &YouTubeAdapter{svc: svc}, nil
}

func (a *YouTubeAdapter) Name() model.Source { return model.SourceYouTube }

func (a *YouTubeAdapter) Search(ctx context.Context, query string, maxResults int) ([]model.Hit, error) {
	n := min(max(maxResults, 1), youtubeMaxResults)

	res, err := a.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(n)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, googleError(model.SourceYouTube, err)
	}

	hits := make([]model.Hit, 0, len(res.Items))
	for _, item := range res.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		var title, description string
		if item.Snippet != nil {
			title = item.Snippet.Title
			description = item.Snippet.Description
		}
		hits = append(hits, model.Hit{
			Source:  model.SourceYouTube,
			Title:   CleanText(title),
			URL:     youtubeWatchURL + item.Id.VideoId,
			Snippet: CleanText(description),
		})
	}
	return hits, nil
}
