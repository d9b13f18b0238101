package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchResultSet_FlattenFollowsOrder(t *testing.T) {
	set := NewSearchResultSet()
	set.Order = []Source{SourceYouTube, SourceExa}
	set.ByProvider[SourceExa] = []Hit{{URL: "e1"}, {URL: "e2"}}
	set.ByProvider[SourceYouTube] = []Hit{{URL: "y1"}}

	flat := set.Flatten()
	require.Len(t, flat, 3)
	assert.Equal(t, []string{"y1", "e1", "e2"}, []string{flat[0].URL, flat[1].URL, flat[2].URL})
}

func TestSearchResultSet_MarshalJSON(t *testing.T) {
	set := NewSearchResultSet()
	set.Order = []Source{SourceExa, SourceGoogle}
	set.ByProvider[SourceExa] = []Hit{{Source: SourceExa, Title: "T", URL: "u", Snippet: "s"}}
	set.Ranked = []Hit{set.ByProvider[SourceExa][0].WithScore(0.5)}

	b, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Ranked":[{"source":"Exa","title":"T","url":"u","snippet":"s","score":0.5}],`+
			`"Exa":[{"source":"Exa","title":"T","url":"u","snippet":"s"}],"Google":[]}`,
		string(b))
}

func TestCount_JSONPair(t *testing.T) {
	b, err := json.Marshal([]Count{{Key: "go", Count: 3}})
	require.NoError(t, err)
	assert.Equal(t, `[["go",3]]`, string(b))

	var back Count
	require.NoError(t, json.Unmarshal([]byte(`["rust",2]`), &back))
	assert.Equal(t, Count{Key: "rust", Count: 2}, back)
	assert.Error(t, json.Unmarshal([]byte(`["only"]`), &back))
}

func TestHit_WithScoreCopies(t *testing.T) {
	h := Hit{Title: "a", Snippet: "b"}
	scored := h.WithScore(0.25)
	assert.Nil(t, h.Score)
	assert.Equal(t, 0.25, scored.ScoreValue())
	assert.Equal(t, 0.0, h.ScoreValue())
	assert.Equal(t, "a b", h.Document())
}
