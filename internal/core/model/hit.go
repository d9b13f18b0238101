package model

// Source names the provider a hit came from. The shipped adapters use the
// constants below; the core treats any non-empty name as a provider.
type Source string

const (
	SourceExa     Source = "Exa"
	SourceGoogle  Source = "Google"
	SourceYouTube Source = "YouTube"
)

type Hit struct {
	Source  Source   `json:"source"`
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Snippet string   `json:"snippet"`
	Score   *float64 `json:"score,omitempty"` // Set by the ranker only
}

// Document is the text a hit contributes to the ranking corpus.
func (h Hit) Document() string {
	return h.Title + " " + h.Snippet
}

// WithScore returns a copy of h carrying score. The receiver is left untouched.
func (h Hit) WithScore(score float64) Hit {
	s := score
	h.Score = &s
	return h
}

// ScoreValue returns the ranker score, or 0 when the hit was never ranked.
func (h Hit) ScoreValue() float64 {
	if h.Score == nil {
		return 0
	}
	return *h.Score
}
