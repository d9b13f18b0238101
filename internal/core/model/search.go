package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SearchResultSet is built fresh for every request and never persisted.
type SearchResultSet struct {
	// Order lists the providers that answered, in configured adapter order.
	Order      []Source
	ByProvider map[Source][]Hit
	Ranked     []Hit
}

func NewSearchResultSet() SearchResultSet {
	return SearchResultSet{
		ByProvider: make(map[Source][]Hit),
		Ranked:     []Hit{},
	}
}

// Flatten returns every provider's hits concatenated in Order.
func (s SearchResultSet) Flatten() []Hit {
	total := 0
	for _, src := range s.Order {
		total += len(s.ByProvider[src])
	}
	flat := make([]Hit, 0, total)
	for _, src := range s.Order {
		flat = append(flat, s.ByProvider[src]...)
	}
	return flat
}

// Count is a key and how many times it was recorded. It encodes as a
// two-element JSON array, ["key", 3].
type Count struct {
	Key   string
	Count int
}

func (c Count) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{c.Key, c.Count})
}

func (c *Count) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("count: expected [key, count], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.Key); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &c.Count)
}

// MarshalJSON encodes the set as one object: "Ranked" first, then each
// provider's list in Order.
func (s SearchResultSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"Ranked":`)
	ranked := s.Ranked
	if ranked == nil {
		ranked = []Hit{}
	}
	if err := writeJSON(&buf, ranked); err != nil {
		return nil, err
	}
	for _, src := range s.Order {
		buf.WriteByte(',')
		if err := writeJSON(&buf, string(src)); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		hits := s.ByProvider[src]
		if hits == nil {
			hits = []Hit{}
		}
		if err := writeJSON(&buf, hits); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
