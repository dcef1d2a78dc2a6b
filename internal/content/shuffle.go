package content

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/lophoc/internal/model"
)

// Shuffler randomizes item order.
type Shuffler struct {
	rnd *rand.Rand
}

// NewShuffler returns a Shuffler seeded with the current time.
func NewShuffler() *Shuffler {
	return NewSeededShuffler(time.Now().UnixNano())
}

// NewSeededShuffler returns a deterministic Shuffler.
func NewSeededShuffler(seed int64) *Shuffler {
	return &Shuffler{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle returns a random permutation of items. The input is not modified.
func (s *Shuffler) Shuffle(items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
