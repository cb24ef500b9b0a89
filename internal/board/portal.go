package board

import "math/rand/v2"

// borderPos maps a side and an offset along it to the border cell.
func (g *Grid) borderPos(side Direction, offset int) Pos {
	last := g.size - 1
	switch side {
	case North:
		return Pos{Row: 0, Col: offset}
	case East:
		return Pos{Row: offset, Col: last}
	case South:
		return Pos{Row: last, Col: offset}
	default:
		return Pos{Row: offset, Col: 0}
	}
}

func (g *Grid) setKind(p Pos, kind CellKind) {
	c := g.at(p)
	c.Kind = kind
	c.Walls = NoWalls
	c.Item = Item{}
}

// placeBorderAndPortals turns the outer ring into walls and opens one
// entrance and one exit on two different sides, never on a corner.
func placeBorderAndPortals(g *Grid, r *rand.Rand) (entrance, exit Pos) {
	for i := range g.size {
		g.setKind(Pos{Row: 0, Col: i}, Wall)
		g.setKind(Pos{Row: g.size - 1, Col: i}, Wall)
		g.setKind(Pos{Row: i, Col: 0}, Wall)
		g.setKind(Pos{Row: i, Col: g.size - 1}, Wall)
	}

	entranceSide := Direction(r.IntN(4))
	entrance = g.borderPos(entranceSide, r.IntN(g.size-2)+1)
	g.setKind(entrance, Entrance)

	exitSide := entranceSide
	for exitSide == entranceSide {
		exitSide = Direction(r.IntN(4))
	}
	exit = g.borderPos(exitSide, r.IntN(g.size-2)+1)
	g.setKind(exit, Exit)

	Log.Debug("placed portals",
		"entrance", entrance, "entranceSide", entranceSide,
		"exit", exit, "exitSide", exitSide,
	)
	return entrance, exit
}

// inward returns the interior cell directly behind a portal.
//
// panics [AssertionError]
func (g *Grid) inward(portal Pos) Pos {
	side, ok := g.sideOf(portal)
	if !ok || g.IsCorner(portal) {
		panic(AssertionError{"portal " + portal.String() + " is not on a border side"})
	}
	return portal.Step(side.Opposite())
}
