package board

import "fmt"

/*
 * The grid is a flat arena of size*size cells stored row by row. Everything
 * that walks the grid (placer, distributor, carver) addresses cells by index
 * or by Pos and never keeps references into the slice.
 */
type Grid struct {
	size     int
	cellSize int
	cells    []Cell
}

// newGrid lays out size*size Path cells, fully walled, on a regular
// lattice.
func newGrid(size, cellSize int) *Grid {
	g := &Grid{
		size:     size,
		cellSize: cellSize,
		cells:    make([]Cell, size*size),
	}
	for row := range size {
		for col := range size {
			g.cells[row*size+col] = Cell{
				Kind:  Path,
				X:     col * cellSize,
				Y:     row * cellSize,
				Size:  cellSize,
				Walls: AllWalls,
			}
		}
	}
	return g
}

func (g *Grid) Size() int {
	return g.size
}

func (g *Grid) CellSize() int {
	return g.cellSize
}

func (g *Grid) InBounds(p Pos) bool {
	return 0 <= p.Row && p.Row < g.size && 0 <= p.Col && p.Col < g.size
}

// Interior reports whether p lies inside the border ring, [1, size-2] on
// both axes.
func (g *Grid) Interior(p Pos) bool {
	return 1 <= p.Row && p.Row <= g.size-2 && 1 <= p.Col && p.Col <= g.size-2
}

func (g *Grid) OnBorder(p Pos) bool {
	return g.InBounds(p) && !g.Interior(p)
}

func (g *Grid) IsCorner(p Pos) bool {
	last := g.size - 1
	return (p.Row == 0 || p.Row == last) && (p.Col == 0 || p.Col == last)
}

// panics [AssertionError]
func (g *Grid) index(p Pos) int {
	if !g.InBounds(p) {
		panic(AssertionError{fmt.Sprintf(
			"cell %s out of %dx%d grid", p, g.size, g.size,
		)})
	}
	return p.Row*g.size + p.Col
}

func (g *Grid) pos(i int) Pos {
	return Pos{Row: i / g.size, Col: i % g.size}
}

// CellAt returns a copy of the cell at row, col.
//
// panics [AssertionError]
func (g *Grid) CellAt(row, col int) Cell {
	return g.cells[g.index(Pos{Row: row, Col: col})]
}

// at is the mutable accessor used while generating.
func (g *Grid) at(p Pos) *Cell {
	return &g.cells[g.index(p)]
}

// Neighbor returns the cell adjacent to p in direction d, or ok=false when
// that cell is not part of the interior.
func (g *Grid) Neighbor(p Pos, d Direction) (n Pos, ok bool) {
	n = p.Step(d)
	if !g.Interior(n) {
		return Pos{}, false
	}
	return n, true
}

// sideOf returns the border side p lies on. Corners are reported as
// belonging to the north or south side.
func (g *Grid) sideOf(p Pos) (Direction, bool) {
	switch {
	case !g.OnBorder(p):
		return 0, false
	case p.Row == 0:
		return North, true
	case p.Row == g.size-1:
		return South, true
	case p.Col == g.size-1:
		return East, true
	default:
		return West, true
	}
}

// openWall clears the wall between p and its neighbour in d on both cells.
func (g *Grid) openWall(p Pos, d Direction) {
	a := g.at(p)
	b := g.at(p.Step(d))
	a.Walls = a.Walls.without(d)
	b.Walls = b.Walls.without(d.Opposite())
}
