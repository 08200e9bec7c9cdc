package idx_test

import (
	"sync"
	"testing"
	"time"

	"github.com/paperloop/paperloop/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewIsUniqueAndOrdered(t *testing.T) {
	t.Parallel()

	a := idx.New()
	b := idx.New()
	require.NotEqual(t, a, b)
	require.Less(t, a.String(), b.String())
}

func TestParse(t *testing.T) {
	t.Parallel()

	id := idx.New()
	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	for _, s := range []string{"", "  ", "not-a-ulid", "0000"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid)
	}
}

func TestTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	id := idx.NewAt(at)
	require.WithinDuration(t, at, id.Time(), time.Second)

	require.True(t, idx.Zero.Time().IsZero())
}

func TestConcurrentGeneration(t *testing.T) {
	t.Parallel()

	const n = 100
	ids := make([]idx.ID, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = idx.New()
		}()
	}
	wg.Wait()

	seen := make(map[idx.ID]struct{}, n)
	for _, id := range ids {
		require.False(t, id.IsZero())
		seen[id] = struct{}{}
	}
	require.Len(t, seen, n)
}
