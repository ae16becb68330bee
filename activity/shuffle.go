// activity/shuffle.go
package activity

import (
	"math/rand"
	"sync/atomic"
	"time"
)

var visitCounter int64

// NewVisitSeed returns a shuffle seed for one visit to an activity. The seed
// is kept across retries within the visit, so a wrong submission does not
// hand the learner a re-memorization advantage, and regenerated when the
// activity is re-entered from navigation. Consecutive calls never return the
// same seed, even within one clock tick.
func NewVisitSeed() int64 {
	return time.Now().UnixNano() + atomic.AddInt64(&visitCounter, 1)
}

// ShuffleOrder returns a deterministic permutation of [0, n) for the given
// seed. Rendering the same visit always shows the same order.
func ShuffleOrder(n int, seed int64) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}
