package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtCarriesTimestamp(t *testing.T) {
	t.Parallel()

	ts := time.Date(2020, 1, 11, 0, 0, 0, 0, time.UTC)
	got, err := Time(At(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got), "want %s got %s", ts, got)
}

// Not parallel: an interleaved At with another timestamp resets the
// monotonic entropy.
func TestAtSameInstantIsIncreasing(t *testing.T) {
	ts := time.Date(2020, 1, 11, 0, 0, 0, 0, time.UTC)
	a := At(ts)
	b := At(ts)
	assert.Less(t, a, b)
}

func TestNewIsUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		s := New()
		assert.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
	}
}

func TestTimeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}
