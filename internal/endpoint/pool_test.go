package endpoint

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool_Empty(t *testing.T) {
	_, err := NewPool(nil)
	require.Error(t, err)
}

func TestShuffle_IsPermutation(t *testing.T) {
	urls := []string{"a", "b", "c", "d", "e"}
	p, err := NewPool(urls)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		p.Shuffle()
		order := p.Order()
		require.Len(t, order, len(urls))

		got := append([]string(nil), order...)
		sort.Strings(got)
		assert.Equal(t, urls, got, "shuffle must be a pure permutation")
	}
}

func TestShuffle_ReplacesOrder(t *testing.T) {
	p, err := NewPool([]string{"a", "b", "c"})
	require.NoError(t, err)

	before := p.Order()
	p.Shuffle()
	after := p.Order()

	// The old snapshot stays intact regardless of the swap.
	require.Len(t, before, 3)
	require.Len(t, after, 3)
}

func TestRandom_FromCurrentOrder(t *testing.T) {
	p, err := NewPool([]string{"a", "b"})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		u := p.Random()
		assert.Contains(t, []string{"a", "b"}, u)
	}
}
