package blockfall

import "math/rand/v2"

// Bag dispenses piece kinds so that every kind appears exactly once
// between two refills.
type Bag struct {
	kinds []Kind
	rng   *rand.Rand
}

// NewBag creates an empty bag; the first Draw refills it.
func NewBag(rng *rand.Rand) *Bag {
	return &Bag{
		kinds: make([]Kind, 0, len(AllKinds)),
		rng:   rng,
	}
}

// Refill discards any remaining kinds and loads a freshly shuffled set.
func (b *Bag) Refill() {
	b.kinds = append(b.kinds[:0], AllKinds[:]...)
	// Fisher-Yates
	for i := len(b.kinds) - 1; i > 0; i-- {
		j := b.rng.IntN(i + 1)
		b.kinds[i], b.kinds[j] = b.kinds[j], b.kinds[i]
	}
}

// Draw pops the next kind from the back of the bag.
func (b *Bag) Draw() Kind {
	if len(b.kinds) == 0 {
		b.Refill()
	}
	last := len(b.kinds) - 1
	k := b.kinds[last]
	b.kinds = b.kinds[:last]
	return k
}

// Len returns how many kinds remain before the next refill.
func (b *Bag) Len() int {
	return len(b.kinds)
}
