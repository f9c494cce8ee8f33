package id

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Monotonic(t *testing.T) {
	t.Parallel()

	ids := make([]string, 1000)
	for i := range ids {
		ids[i] = New()
	}

	assert.True(t, sort.StringsAreSorted(ids))
	seen := make(map[string]bool, len(ids))
	for _, s := range ids {
		assert.Len(t, s, 26)
		assert.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
	}
}

func TestNewAt_RoundTripsTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 15, 9, 30, 0, 123_000_000, time.UTC)
	got, err := Time(NewAt(at))
	require.NoError(t, err)
	assert.Equal(t, at, got)
}

func TestGenerator_SameMillisecond(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	a, b := NewGenerator(42), NewGenerator(42)

	var ids []string
	for i := 0; i < 100; i++ {
		s := a.At(at)
		assert.Equal(t, s, b.At(at))
		ids = append(ids, s)
	}
	assert.True(t, sort.StringsAreSorted(ids))
	assert.Equal(t, ids[0][:10], ids[99][:10], "same timestamp prefix")
	assert.NotEqual(t, ids[0], ids[99])
}

func TestTime_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}
