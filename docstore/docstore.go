// Package docstore provides the document store and the Search/Lookup explorer used by the
// ReAct docstore agent.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrDuplicateDocument is returned when two documents share an id.
var ErrDuplicateDocument = errors.New("duplicate document id")

// Document is a page of text. Paragraphs are separated by blank lines.
type Document struct {
	ID       string            `yaml:"id"`
	Content  string            `yaml:"content"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// Paragraphs splits the content on blank lines.
func (d Document) Paragraphs() []string {
	return strings.Split(d.Content, "\n\n")
}

// Summary returns the first paragraph.
func (d Document) Summary() string {
	return d.Paragraphs()[0]
}

// Docstore finds a document by search term.
type Docstore interface {
	// Search returns the document for term, or a *NotFoundError.
	Search(ctx context.Context, term string) (Document, error)
}

// NotFoundError reports a failed search. Similar lists ids the caller may try instead.
type NotFoundError struct {
	Term    string
	Similar []string
}

func (e *NotFoundError) Error() string {
	if len(e.Similar) == 0 {
		return fmt.Sprintf("Could not find [%s]. Try another search term.", e.Term)
	}
	return fmt.Sprintf("Could not find [%s]. Similar: [%s]", e.Term, strings.Join(e.Similar, ", "))
}

// maxSimilar caps the suggestions of a NotFoundError.
const maxSimilar = 5

// InMemory is a Docstore over a fixed set of documents. Search matches ids exactly first,
// then case-insensitively, taking the first matching id in sorted order.
type InMemory struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewInMemory creates a store holding docs.
func NewInMemory(docs ...Document) (*InMemory, error) {
	s := &InMemory{docs: make(map[string]Document, len(docs))}
	if err := s.Add(docs...); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadYAML reads a list of documents:
//
//	- id: LangChain
//	  content: |
//	    LangChain is a framework.
//
//	    Made in 2022.
func LoadYAML(r io.Reader) (*InMemory, error) {
	var docs []Document
	if err := yaml.NewDecoder(r).Decode(&docs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return NewInMemory(docs...)
}

// Add inserts documents. It fails without adding anything when an id is empty or taken.
func (s *InMemory) Add(docs ...Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			return fmt.Errorf("document id must not be empty")
		}
		if _, ok := s.docs[d.ID]; ok || seen[d.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateDocument, d.ID)
		}
		seen[d.ID] = true
	}
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return nil
}

// Len returns the number of documents.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Search implements Docstore.
func (s *InMemory) Search(ctx context.Context, term string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if d, ok := s.docs[term]; ok {
		return d, nil
	}

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Ids that differ only by case resolve to the first in sorted order.
	lower := strings.ToLower(strings.TrimSpace(term))
	var similar []string
	for _, id := range ids {
		idLower := strings.ToLower(id)
		if idLower == lower {
			return s.docs[id], nil
		}
		if lower != "" && (strings.Contains(idLower, lower) || strings.Contains(lower, idLower)) {
			similar = append(similar, id)
		}
	}
	if len(similar) > maxSimilar {
		similar = similar[:maxSimilar]
	}
	return Document{}, &NotFoundError{Term: term, Similar: similar}
}

var _ Docstore = (*InMemory)(nil)
