/*
Package board generates maze game boards.

A board is a Size×Size grid whose outer ring is wall, broken by one entrance
and one exit on different sides. The interior is a perfect maze: the open
walls between interior cells form a spanning tree, so every interior cell is
reachable from the entrance along exactly one path. One hundred obstacle and
reward items are scattered over the interior, at most one per cell.

Generation is deterministic for a given random source; every step draws from
the *rand.Rand passed to Generate and nothing else.
*/
package board

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
)

const (
	Size     = 32
	CellSize = 20
)

var Log *slog.Logger = slog.Default()

// Board is a fully generated maze. It is never modified after Generate or
// Restore returns; accessors hand out copies.
type Board struct {
	grid     *Grid
	entrance Pos
	exit     Pos
	start    Pos
}

func Generate(r *rand.Rand) (*Board, error) {
	return generate(r, DefaultCatalog)
}

func generate(r *rand.Rand, catalog Catalog) (b *Board, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			var ae AssertionError
			if e, ok := rec.(error); ok && errors.As(e, &ae) {
				b, err = nil, fmt.Errorf("generate board: %w", ae)
				return
			}
			panic(rec)
		}
	}()

	g := newGrid(Size, CellSize)
	entrance, exit := placeBorderAndPortals(g, r)
	if err := distributeItems(g, catalog, r); err != nil {
		return nil, err
	}
	start := carve(g, entrance, r)

	b = &Board{grid: g, entrance: entrance, exit: exit, start: start}
	Log.Debug("generated board", "entrance", entrance, "exit", exit)
	return b, nil
}

func (b *Board) Size() int {
	return b.grid.size
}

func (b *Board) CellSize() int {
	return b.grid.cellSize
}

// CellAt returns the cell at row, col.
//
// panics [AssertionError]
func (b *Board) CellAt(row, col int) Cell {
	return b.grid.CellAt(row, col)
}

func (b *Board) Cell(p Pos) Cell {
	return b.grid.CellAt(p.Row, p.Col)
}

func (b *Board) Entrance() Pos {
	return b.entrance
}

func (b *Board) Exit() Pos {
	return b.exit
}

// Start is the interior cell behind the entrance where carving began.
func (b *Board) Start() Pos {
	return b.start
}

func (b *Board) Neighbor(p Pos, d Direction) (Pos, bool) {
	return b.grid.Neighbor(p, d)
}

func (b *Board) Interior(p Pos) bool {
	return b.grid.Interior(p)
}

// Open reports whether one can step from interior cell p to its interior
// neighbour in direction d.
func (b *Board) Open(p Pos, d Direction) bool {
	n, ok := b.grid.Neighbor(p, d)
	if !ok || !b.grid.Interior(p) {
		return false
	}
	return !b.Cell(p).Walls.Has(d) && !b.Cell(n).Walls.Has(d.Opposite())
}

// All yields every cell in row-major order.
func (b *Board) All() iter.Seq2[Pos, Cell] {
	return func(yield func(Pos, Cell) bool) {
		for i, c := range b.grid.cells {
			if !yield(b.grid.pos(i), c) {
				return
			}
		}
	}
}

// Items yields every placed item with the position of its cell.
func (b *Board) Items() iter.Seq2[Pos, Item] {
	return func(yield func(Pos, Item) bool) {
		for p, c := range b.All() {
			if c.HasItem() && !yield(p, c.Item) {
				return
			}
		}
	}
}

// Score is the sum of the effects of every item on the board.
func (b *Board) Score() (score int) {
	for _, it := range b.Items() {
		score += it.Kind.Effect()
	}
	return
}
