package board

import (
	"fmt"
	"strings"
)

type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

var Directions = [4]Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// delta returns the row and column step taken when moving in d.
func (d Direction) delta() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	default:
		return 0, -1
	}
}

// WallMask holds one bit per direction; a set bit means the wall is present.
type WallMask uint8

const (
	NoWalls  WallMask = 0
	AllWalls WallMask = 1<<North | 1<<East | 1<<South | 1<<West
)

func (m WallMask) Has(d Direction) bool {
	return m&(1<<d) != 0
}

func (m WallMask) without(d Direction) WallMask {
	return m &^ (1 << d)
}

// String lists present walls as "NESW", with '-' in place of open sides.
func (m WallMask) String() string {
	var b strings.Builder
	for _, d := range Directions {
		if m.Has(d) {
			b.WriteByte(d.String()[0])
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

type CellKind uint8

const (
	Wall CellKind = iota
	Entrance
	Exit
	Path
)

func (k CellKind) String() string {
	switch k {
	case Wall:
		return "wall"
	case Entrance:
		return "entrance"
	case Exit:
		return "exit"
	case Path:
		return "path"
	default:
		return fmt.Sprintf("CellKind(%d)", uint8(k))
	}
}

// Cell is a single square of the board. Walls and Item are only meaningful
// for Path cells; every other kind is impassable or a portal.
type Cell struct {
	Kind  CellKind
	X, Y  int // origin on the lattice
	Size  int
	Walls WallMask
	Item  Item
}

func (c Cell) HasItem() bool {
	return c.Kind == Path && c.Item.Kind != NoItem
}

// Pos addresses a cell by row and column.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Pos) Step(d Direction) Pos {
	dr, dc := d.delta()
	return Pos{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}
