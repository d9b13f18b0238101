// Package export serializes a search results object for download.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/agenthands/metasearch/internal/core/model"
)

var ErrInvalidFormat = errors.New("invalid export format")

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Group is one named list of hits, e.g. "Ranked" or a provider name.
type Group struct {
	Name string
	Hits []model.Hit
}

// Results is a results object with its keys kept in document order.
type Results []Group

// FromResultSet converts a search result set into export form, Ranked first.
func FromResultSet(set model.SearchResultSet) Results {
	out := Results{{Name: "Ranked", Hits: set.Ranked}}
	for _, src := range set.Order {
		out = append(out, Group{Name: string(src), Hits: set.ByProvider[src]})
	}
	return out
}

func (r *Results) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("results must be an object")
	}

	var out Results
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var hits []model.Hit
		if err := dec.Decode(&hits); err != nil {
			return fmt.Errorf("results[%q]: %w", name, err)
		}
		out = append(out, Group{Name: name, Hits: hits})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

func (r Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Name)
		if err != nil {
			return nil, err
		}
		hits := g.Hits
		if hits == nil {
			hits = []model.Hit{}
		}
		val, err := json.Marshal(hits)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Write encodes results to w in the given format. An unknown format returns
// ErrInvalidFormat before anything is written.
func Write(w io.Writer, format string, results Results) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, results)
	case FormatJSON:
		b, err := json.Marshal(results)
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

func writeCSV(w io.Writer, results Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Source", "Title", "URL", "Snippet"}); err != nil {
		return err
	}
	for _, g := range results {
		for _, h := range g.Hits {
			if err := cw.Write([]string{g.Name, h.Title, h.URL, h.Snippet}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ContentType returns the MIME type for format, or "" if it is unknown.
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	}
	return ""
}

// Filename returns the download name for format, or "" if it is unknown.
func Filename(format string) string {
	switch format {
	case FormatCSV:
		return "results.csv"
	case FormatJSON:
		return "results.json"
	}
	return ""
}
