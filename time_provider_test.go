package reactloop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTimeProvider_Now(t *testing.T) {
	tp := NewDefaultTimeProvider()

	before := time.Now()
	result := tp.Now()
	after := time.Now()

	assert.False(t, result.Before(before))
	assert.False(t, result.After(after))
}

func TestMockTimeProvider(t *testing.T) {
	start := time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC)
	tp := NewMockTimeProvider(start)

	assert.Equal(t, start, tp.Now())
	assert.Equal(t, "2025-02-15", tp.Today())
	assert.Equal(t, "Saturday", tp.Weekday())

	tp.Advance(36 * time.Hour)
	assert.Equal(t, start.Add(36*time.Hour), tp.Now())
	assert.Equal(t, "2025-02-17", tp.Today())
	assert.Equal(t, "Monday", tp.Weekday())

	other := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tp.SetTime(other)
	assert.Equal(t, other, tp.Now())
}
