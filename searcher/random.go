package searcher

import "lukechampine.com/frand"

// Random picks rollout moves and fallback moves. *rand.Rand from
// golang.org/x/exp/rand satisfies it for seeded searches.
type Random interface {
	Intn(n int) int
}

type fastRandom struct{}

func (fastRandom) Intn(n int) int {
	return frand.Intn(n)
}
