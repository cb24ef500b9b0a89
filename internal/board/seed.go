package board

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"strings"
)

// Seed fully determines a generated board: the same seed always yields the
// same board.
type Seed struct {
	Hi, Lo uint64
}

// NewSeed returns a seed drawn from fresh process entropy. It is safe to
// call from several goroutines.
func NewSeed() Seed {
	return Seed{
		Hi: new(maphash.Hash).Sum64(),
		Lo: new(maphash.Hash).Sum64(),
	}
}

// Rand returns a new generator positioned at the start of the seed's
// sequence. Each call is independent of the others.
func (s Seed) Rand() *rand.Rand {
	return rand.New(rand.NewPCG(s.Hi, s.Lo))
}

func (s Seed) String() string {
	return fmt.Sprintf("%d:%d", s.Hi, s.Lo)
}

func ParseSeed(seed string) (Seed, error) {
	var s Seed
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d", &s.Hi, &s.Lo)
	if n != 2 || err != nil {
		return Seed{}, fmt.Errorf(
			`invalid board seed (seed = "%s", n = %d, err = %w)`,
			seed, n, err,
		)
	}
	return s, nil
}
