package board

import (
	"fmt"
	"math/rand/v2"
)

// drawsPerCell bounds the rejection sampling: every item gets at most
// drawsPerCell*interior draws before the distributor gives up.
const drawsPerCell = 32

// distributeItems scatters the catalog over the interior, one item per
// cell, by drawing random interior cells until a free one comes up.
func distributeItems(g *Grid, catalog Catalog, r *rand.Rand) error {
	span := g.size - 2
	interior := span * span
	if total := catalog.Total(); total > interior {
		return fmt.Errorf("%w: %d items, %d interior cells",
			ErrCapacity, total, interior)
	}

	maxDraws := drawsPerCell * interior
	draws := 0
	for _, entry := range catalog {
		if !entry.Kind.Valid() {
			panic(AssertionError{"catalog holds " + entry.Kind.String()})
		}
		for placed := 0; placed < entry.Quantity; {
			p := Pos{Row: r.IntN(span) + 1, Col: r.IntN(span) + 1}
			draws++

			c := g.at(p)
			if c.Kind != Path {
				panic(AssertionError{"item drawn onto " + c.Kind.String() + " cell"})
			}
			if c.Item.Kind != NoItem {
				if draws > maxDraws {
					return fmt.Errorf("%w: no free cell for %s after %d draws",
						ErrCapacity, entry.Kind, draws)
				}
				continue
			}

			c.Item = newItem(entry.Kind, *c)
			placed++
			draws = 0
		}
	}

	Log.Debug("distributed items", "count", catalog.Total())
	return nil
}
