package booking

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// IDGenerator issues booking ids of the form BK-NNNNNN.
type IDGenerator interface {
	NewBookingID() string
}

// RandomIDs draws ids uniformly from [100000, 999999]. Collisions are
// possible; nothing beyond the range is guaranteed.
type RandomIDs struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomIDs(seed uint64) *RandomIDs {
	return &RandomIDs{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *RandomIDs) NewBookingID() string {
	g.mu.Lock()
	n := 100000 + g.rng.IntN(900000)
	g.mu.Unlock()

	return fmt.Sprintf("BK-%d", n)
}
