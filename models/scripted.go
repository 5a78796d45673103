package models

import (
	"context"
	"errors"
	"sync"

	"github.com/rickchristie/reactloop"
)

// ErrScriptExhausted is returned by a Scripted model after its last completion.
var ErrScriptExhausted = errors.New("scripted model has no more completions")

// Scripted replays a fixed list of completions. It backs offline runs and demos
// (provider "scripted" in agent config files).
type Scripted struct {
	mu          sync.Mutex
	completions []string
	next        int
}

// NewScripted returns a model that answers with completions in order.
func NewScripted(completions ...string) *Scripted {
	return &Scripted{completions: append([]string(nil), completions...)}
}

// Remaining returns the number of unused completions.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.completions) - s.next
}

// Generate implements reactloop.LanguageModel.
func (s *Scripted) Generate(ctx context.Context, prompt string, stop []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.completions) {
		return "", ErrScriptExhausted
	}
	out := s.completions[s.next]
	s.next++
	return out, nil
}

var _ reactloop.LanguageModel = (*Scripted)(nil)
