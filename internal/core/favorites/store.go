// Package favorites holds the ordered, duplicate-free list of records users
// saved. Records are opaque JSON values compared by canonical encoding.
package favorites

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
)

type Store struct {
	mu    sync.RWMutex
	items []json.RawMessage
	seen  map[string]struct{}
}

func NewStore() *Store {
	return &Store{seen: make(map[string]struct{})}
}

// Add appends record unless an equal record is already stored. Empty values
// (null, {}, [], "", false, 0) are ignored. It reports whether the record
// was appended; only malformed JSON is an error.
func (s *Store) Add(record json.RawMessage) (bool, error) {
	key, empty, err := canonical(record)
	if err != nil {
		return false, err
	}
	if empty {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, json.RawMessage(key))
	return true, nil
}

// List returns a snapshot of the stored records in insertion order.
func (s *Store) List() []json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]json.RawMessage, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// canonical re-encodes record so that semantically equal JSON values
// (different key order or whitespace) share one key. Numbers keep their
// literal text so large integers are not rounded.
func canonical(record json.RawMessage) (string, bool, error) {
	if len(record) == 0 {
		return "", true, nil
	}
	dec := json.NewDecoder(bytes.NewReader(record))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false, fmt.Errorf("invalid favorite record: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("invalid favorite record: trailing data")
	}
	if isEmpty(v) {
		return "", true, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false, fmt.Errorf("failed to encode favorite record: %w", err)
	}
	return string(b), false, nil
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(x) == 0
	case []any:
		return len(x) == 0
	case string:
		return x == ""
	case bool:
		return !x
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		return err == nil && f == 0
	default:
		return false
	}
}
