package automatic

import (
	"lukechampine.com/frand"

	"github.com/domino14/dropbot/piece"
)

// Bag deals pieces in shuffled groups of seven, one of each type.
type Bag struct {
	rng   *frand.RNG
	queue []piece.PieceType
}

func NewBag(seed Seed) *Bag {
	return &Bag{rng: frand.NewCustom(seed[:], 1024, 12)}
}

func (b *Bag) Next() piece.PieceType {
	if len(b.queue) == 0 {
		for _, i := range b.rng.Perm(len(piece.AllTypes)) {
			b.queue = append(b.queue, piece.AllTypes[i])
		}
	}
	p := b.queue[0]
	b.queue = b.queue[1:]
	return p
}
