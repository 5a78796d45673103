package reactloop

import (
	"sync"
	"time"
)

// TimeProvider supplies the current time. The executor measures wall-clock budgets through
// it, and agents expose it to prompt templates as .Time:
//
//	Today is {{.Time.Today}} ({{.Time.Weekday}}).
type TimeProvider interface {
	// Now returns the current time.
	Now() time.Time

	// Today returns the current date as YYYY-MM-DD.
	Today() string

	// Weekday returns the current day of the week, e.g. "Monday".
	Weekday() string
}

// DefaultTimeProvider reads the system clock.
type DefaultTimeProvider struct{}

// NewDefaultTimeProvider creates a new DefaultTimeProvider.
func NewDefaultTimeProvider() *DefaultTimeProvider {
	return &DefaultTimeProvider{}
}

func (p *DefaultTimeProvider) Now() time.Time {
	return time.Now()
}

func (p *DefaultTimeProvider) Today() string {
	return p.Now().Format(time.DateOnly)
}

func (p *DefaultTimeProvider) Weekday() string {
	return p.Now().Weekday().String()
}

// MockTimeProvider returns a fixed time that tests move explicitly.
// It is safe for concurrent use.
type MockTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockTimeProvider creates a MockTimeProvider starting at t.
func NewMockTimeProvider(t time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: t}
}

// SetTime sets the time returned by Now.
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *MockTimeProvider) Today() string {
	return m.Now().Format(time.DateOnly)
}

func (m *MockTimeProvider) Weekday() string {
	return m.Now().Weekday().String()
}

var (
	_ TimeProvider = (*DefaultTimeProvider)(nil)
	_ TimeProvider = (*MockTimeProvider)(nil)
)
