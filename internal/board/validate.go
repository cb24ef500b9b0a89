package board

import (
	"errors"
	"fmt"

	"github.com/gammazero/deque"
)

// Validate checks every structural property a generated board guarantees.
// It is run on restored snapshots before they are handed out.
func (b *Board) Validate() error {
	return b.validate(DefaultCatalog)
}

func (b *Board) validate(catalog Catalog) error {
	g := b.grid
	if g.size < 3 || len(g.cells) != g.size*g.size {
		return fmt.Errorf("%w: malformed %dx%d grid of %d cells",
			ErrInvalidBoard, g.size, g.size, len(g.cells))
	}

	return errors.Join(
		b.validateLattice(),
		b.validateBorder(),
		b.validateWalls(),
		b.validateTree(),
		b.validateItems(catalog),
	)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidBoard}, args...)...)
}

func (b *Board) validateLattice() error {
	g := b.grid
	for i, c := range g.cells {
		p := g.pos(i)
		if c.X != p.Col*g.cellSize || c.Y != p.Row*g.cellSize || c.Size != g.cellSize {
			return invalid("cell %s off the lattice at (%d, %d) size %d",
				p, c.X, c.Y, c.Size)
		}
	}
	return nil
}

func (b *Board) validateBorder() error {
	g := b.grid
	var entrances, exits int
	for i, c := range g.cells {
		p := g.pos(i)
		if g.Interior(p) {
			if c.Kind != Path {
				return invalid("interior cell %s is %s", p, c.Kind)
			}
			continue
		}
		switch c.Kind {
		case Wall:
		case Entrance, Exit:
			if g.IsCorner(p) {
				return invalid("%s on corner %s", c.Kind, p)
			}
			if c.Kind == Entrance {
				entrances++
			} else {
				exits++
			}
		default:
			return invalid("border cell %s is %s", p, c.Kind)
		}
	}
	if entrances != 1 || exits != 1 {
		return invalid("%d entrances and %d exits", entrances, exits)
	}

	if !g.OnBorder(b.entrance) || !g.OnBorder(b.exit) {
		return invalid("portals %s and %s not on the border", b.entrance, b.exit)
	}
	if g.CellAt(b.entrance.Row, b.entrance.Col).Kind != Entrance {
		return invalid("entrance %s is not an entrance cell", b.entrance)
	}
	if g.CellAt(b.exit.Row, b.exit.Col).Kind != Exit {
		return invalid("exit %s is not an exit cell", b.exit)
	}
	entranceSide, _ := g.sideOf(b.entrance)
	exitSide, _ := g.sideOf(b.exit)
	if entranceSide == exitSide {
		return invalid("entrance and exit both on %s side", entranceSide)
	}
	if b.start != g.inward(b.entrance) {
		return invalid("start %s is not behind entrance %s", b.start, b.entrance)
	}
	return nil
}

// validateWalls checks that shared walls agree on both sides and that no
// interior cell is open towards the border ring.
func (b *Board) validateWalls() error {
	g := b.grid
	for i, c := range g.cells {
		p := g.pos(i)
		if c.Kind != Path {
			continue
		}
		for _, d := range Directions {
			n, ok := g.Neighbor(p, d)
			if !ok {
				if !c.Walls.Has(d) {
					return invalid("cell %s open towards the border (%s)", p, d)
				}
				continue
			}
			if c.Walls.Has(d) != g.at(n).Walls.Has(d.Opposite()) {
				return invalid("wall between %s and %s is one-sided", p, n)
			}
		}
	}
	return nil
}

// validateTree checks the open walls form a spanning tree over the
// interior: V-1 edges and every cell reachable from the start.
func (b *Board) validateTree() error {
	g := b.grid
	span := g.size - 2
	cells := span * span

	if edges := b.openEdges(); edges != cells-1 {
		return invalid("%d open edges over %d cells", edges, cells)
	}
	if reached := b.reachable(b.start); reached != cells {
		return invalid("%d of %d cells reachable from %s", reached, cells, b.start)
	}
	return nil
}

// openEdges counts each open wall between interior cells once.
func (b *Board) openEdges() (edges int) {
	for p, c := range b.All() {
		if c.Kind != Path {
			continue
		}
		for _, d := range [2]Direction{East, South} {
			if _, ok := b.grid.Neighbor(p, d); ok && !c.Walls.Has(d) {
				edges++
			}
		}
	}
	return
}

// reachable flood-fills the open-wall graph from p and returns the number
// of cells visited.
func (b *Board) reachable(from Pos) int {
	g := b.grid
	if !g.Interior(from) {
		return 0
	}
	seen := make([]bool, len(g.cells))
	var queue deque.Deque[Pos]
	queue.PushBack(from)
	seen[g.index(from)] = true
	count := 0
	for queue.Len() > 0 {
		p := queue.PopFront()
		count++
		for _, d := range Directions {
			if !b.Open(p, d) {
				continue
			}
			n := p.Step(d)
			if !seen[g.index(n)] {
				seen[g.index(n)] = true
				queue.PushBack(n)
			}
		}
	}
	return count
}

func (b *Board) validateItems(catalog Catalog) error {
	counts := make(map[ItemKind]int)
	for p, c := range b.All() {
		if c.Item.Kind == NoItem {
			continue
		}
		if c.Kind != Path {
			return invalid("%s cell %s holds an item", c.Kind, p)
		}
		if !c.Item.Kind.Valid() {
			return invalid("cell %s holds unknown %s", p, c.Item.Kind)
		}
		if c.Item != newItem(c.Item.Kind, c) {
			return invalid("item geometry in %s does not match its cell", p)
		}
		counts[c.Item.Kind]++
	}
	for _, e := range catalog {
		if counts[e.Kind] != e.Quantity {
			return invalid("%d %s items, want %d", counts[e.Kind], e.Kind, e.Quantity)
		}
	}
	return nil
}
