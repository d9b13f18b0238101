// Package rank scores search hits against a query with TF-IDF cosine
// similarity. Vocabulary and document frequencies are rebuilt on every call;
// nothing is persisted between requests, so scores only order hits within a
// single result set.
package rank

import (
	"maps"
	"math"
	"slices"
	"sort"

	"github.com/agenthands/metasearch/internal/core/model"
)

type Ranker struct{}

func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank returns copies of hits with scores attached, sorted by descending
// score. Equal scores keep their input order.
func (r *Ranker) Rank(query string, hits []model.Hit) []model.Hit {
	if len(hits) == 0 {
		return []model.Hit{}
	}

	docs := make([]string, 0, len(hits)+1)
	docs = append(docs, query)
	for _, h := range hits {
		docs = append(docs, h.Document())
	}

	vectors := Vectorize(docs)
	queryVec := vectors[0]

	ranked := make([]model.Hit, len(hits))
	for i, h := range hits {
		ranked[i] = h.WithScore(Cosine(queryVec, vectors[i+1]))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ScoreValue() > ranked[j].ScoreValue()
	})
	return ranked
}

// Vector is a sparse, L2-normalized TF-IDF vector keyed by term.
type Vector map[string]float64

// Vectorize builds one normalized vector per document. Term frequency is the
// raw count; idf is the smoothed ln((1+n)/(1+df)) + 1 over the n documents
// given.
func Vectorize(docs []string) []Vector {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		tf := make(map[string]int)
		for _, term := range Tokenize(doc) {
			tf[term]++
		}
		for term := range tf {
			df[term]++
		}
		counts[i] = tf
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([]Vector, len(docs))
	for i, tf := range counts {
		vec := make(Vector, len(tf))
		var norm float64
		for _, term := range slices.Sorted(maps.Keys(tf)) {
			w := float64(tf[term]) * idf[term]
			vec[term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range vec {
				vec[term] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// Cosine is the dot product of two normalized vectors. An empty vector on
// either side scores exactly 0. Terms are summed in sorted order so identical
// documents always get bit-identical scores.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot float64
	for _, term := range slices.Sorted(maps.Keys(a)) {
		dot += a[term] * b[term]
	}
	if math.IsNaN(dot) {
		return 0
	}
	return dot
}
