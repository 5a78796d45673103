package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rickchristie/reactloop"
	"github.com/rickchristie/reactloop/agents"
	"github.com/rickchristie/reactloop/hooks"
	"github.com/rickchristie/reactloop/tools"
)

// ErrNoDocument is returned by Lookup before a successful Search in the same run.
var ErrNoDocument = errors.New("cannot lookup without a successful search first")

// Lookup observations.
const (
	NoResults     = "No Results"
	NoMoreResults = "No More Results"
)

// session is the explorer state of one run.
type session struct {
	doc         *Document
	lookupTerm  string
	lookupIndex int
}

// Explorer exposes a Docstore as the Search and Lookup tools.
//
// Search loads a document and returns its summary. Lookup walks the paragraphs of that
// document that contain a term, case-insensitively: repeating the same term returns the
// next match. State is kept per run id (see reactloop.RunIDFromContext) and dropped when
// the run ends. Attach returns the tools and registers the explorer as a hook in one step:
//
//	explorer := docstore.NewExplorer(store)
//	hookRegistry := hooks.NewRegistry()
//	registry := tools.MustNewRegistry(explorer.Attach(hookRegistry)...)
//
// Calls without a run id share a single session.
type Explorer struct {
	store Docstore

	mu       sync.Mutex
	sessions map[string]*session
}

// NewExplorer creates an explorer over store.
func NewExplorer(store Docstore) *Explorer {
	return &Explorer{store: store, sessions: make(map[string]*session)}
}

func (e *Explorer) session(ctx context.Context) *session {
	id := reactloop.RunIDFromContext(ctx)
	s, ok := e.sessions[id]
	if !ok {
		s = &session{}
		e.sessions[id] = s
	}
	return s
}

// Search loads the document for term and returns its summary. A failed search returns the
// not-found message as the observation and clears the current document.
func (e *Explorer) Search(ctx context.Context, term string) (string, error) {
	doc, err := e.store.Search(ctx, term)

	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session(ctx)

	var notFound *NotFoundError
	switch {
	case errors.As(err, &notFound):
		s.doc = nil
		return notFound.Error(), nil
	case err != nil:
		return "", err
	}

	s.doc = &doc
	s.lookupTerm = ""
	s.lookupIndex = 0
	return doc.Summary(), nil
}

// Lookup returns the next paragraph of the current document containing term, prefixed
// with "(Result i/n)".
func (e *Explorer) Lookup(ctx context.Context, term string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session(ctx)
	if s.doc == nil {
		return "", ErrNoDocument
	}

	lower := strings.ToLower(term)
	if lower != s.lookupTerm {
		s.lookupTerm = lower
		s.lookupIndex = 0
	} else {
		s.lookupIndex++
	}

	var matches []string
	for _, p := range s.doc.Paragraphs() {
		if strings.Contains(strings.ToLower(p), lower) {
			matches = append(matches, p)
		}
	}
	switch {
	case len(matches) == 0:
		return NoResults, nil
	case s.lookupIndex >= len(matches):
		return NoMoreResults, nil
	}
	return fmt.Sprintf("(Result %d/%d) %s", s.lookupIndex+1, len(matches), matches[s.lookupIndex]), nil
}

// Sessions returns the number of runs holding explorer state.
func (e *Explorer) Sessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// OnAfterRun drops the state of the finished run.
func (e *Explorer) OnAfterRun(ctx context.Context, event reactloop.AfterRunEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, event.RunID)
}

// Attach registers the explorer on hookRegistry and returns its tools.
func (e *Explorer) Attach(hookRegistry *hooks.Registry) []tools.RegistryEntry {
	hookRegistry.Register(e)
	return e.Tools()
}

// Tools returns the Search and Lookup registry entries. Unless the explorer is also
// registered as a hook, the state of every finished run stays in memory; prefer Attach.
func (e *Explorer) Tools() []tools.RegistryEntry {
	return []tools.RegistryEntry{
		tools.Entry(reactloop.ToolDescriptor{
			Name:        agents.SearchToolName,
			Description: "Search for a page by name and return its first paragraph.",
		}, reactloop.ToolFunc(e.Search)),
		tools.Entry(reactloop.ToolDescriptor{
			Name:        agents.LookupToolName,
			Description: "Return the next paragraph of the current page containing a keyword.",
		}, reactloop.ToolFunc(e.Lookup)),
	}
}

var _ reactloop.AfterRunHook = (*Explorer)(nil)
