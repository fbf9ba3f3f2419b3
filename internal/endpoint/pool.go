package endpoint

import (
	"errors"
	"math/rand"
	"sync/atomic"
)

// Pool holds the fixed set of interchangeable RPC node URLs and the current
// traversal order. The order is replaced wholesale on Shuffle, never mutated
// in place, so a reader always sees a complete ordering even when a slow
// cycle overlaps the next one.
type Pool struct {
	urls  []string
	order atomic.Value // []string
}

// NewPool creates a pool over the given URL set.
func NewPool(urls []string) (*Pool, error) {
	if len(urls) == 0 {
		return nil, errors.New("endpoint pool requires at least one URL")
	}
	p := &Pool{urls: append([]string(nil), urls...)}
	p.order.Store(append([]string(nil), p.urls...))
	return p, nil
}

// Shuffle replaces the traversal order with a fresh random permutation of the
// fixed URL set. Called once before each account's task pair.
func (p *Pool) Shuffle() {
	next := append([]string(nil), p.urls...)
	rand.Shuffle(len(next), func(i, j int) {
		next[i], next[j] = next[j], next[i]
	})
	p.order.Store(next)
}

// Order returns the current traversal order. The returned slice is shared and
// must not be modified.
func (p *Pool) Order() []string {
	return p.order.Load().([]string)
}

// Random returns one URL drawn from the current order.
func (p *Pool) Random() string {
	order := p.Order()
	return order[rand.Intn(len(order))]
}

// Size returns the number of endpoints in the pool.
func (p *Pool) Size() int {
	return len(p.urls)
}
