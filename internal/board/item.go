package board

import "fmt"

type ItemKind uint8

const (
	NoItem ItemKind = iota
	CircleObstacle
	DiamondObstacle
	CircleReward
	DiamondReward
	HeartReward
)

type ItemClass uint8

const (
	Obstacle ItemClass = iota
	Reward
)

func (c ItemClass) String() string {
	if c == Obstacle {
		return "obstacle"
	}
	return "reward"
}

type Shape uint8

const (
	Circle Shape = iota
	Diamond
	Heart
)

func (s Shape) String() string {
	switch s {
	case Circle:
		return "circle"
	case Diamond:
		return "diamond"
	default:
		return "heart"
	}
}

func (k ItemKind) Valid() bool {
	return CircleObstacle <= k && k <= HeartReward
}

func (k ItemKind) Class() ItemClass {
	switch k {
	case CircleObstacle, DiamondObstacle:
		return Obstacle
	default:
		return Reward
	}
}

func (k ItemKind) Shape() Shape {
	switch k {
	case CircleObstacle, CircleReward:
		return Circle
	case DiamondObstacle, DiamondReward:
		return Diamond
	default:
		return Heart
	}
}

// Effect is the score change applied when the item is collected: negative
// for obstacles, positive for rewards.
func (k ItemKind) Effect() int {
	switch k {
	case CircleObstacle:
		return -1
	case DiamondObstacle:
		return -5
	case CircleReward:
		return 5
	case DiamondReward:
		return 10
	case HeartReward:
		return 15
	default:
		return 0
	}
}

func (k ItemKind) String() string {
	if !k.Valid() {
		if k == NoItem {
			return "none"
		}
		return fmt.Sprintf("ItemKind(%d)", uint8(k))
	}
	return k.Shape().String() + "-" + k.Class().String()
}

// Glyph is the one-letter symbol used by text renderers. Obstacles are
// lowercase, rewards uppercase.
func (k ItemKind) Glyph() byte {
	switch k {
	case CircleObstacle:
		return 'o'
	case DiamondObstacle:
		return 'd'
	case CircleReward:
		return 'O'
	case DiamondReward:
		return 'D'
	case HeartReward:
		return 'H'
	default:
		return ' '
	}
}

// itemInset is the margin between a cell's edge and the item drawn in it.
const itemInset = 2

type Item struct {
	Kind ItemKind
	X, Y int
	Size int
}

// newItem derives the item geometry from the cell that owns it.
func newItem(kind ItemKind, owner Cell) Item {
	return Item{
		Kind: kind,
		X:    owner.X + itemInset,
		Y:    owner.Y + itemInset,
		Size: owner.Size - 2*itemInset,
	}
}

type CatalogEntry struct {
	Kind     ItemKind
	Quantity int
}

type Catalog []CatalogEntry

var DefaultCatalog = Catalog{
	{Kind: CircleObstacle, Quantity: 20},
	{Kind: DiamondObstacle, Quantity: 20},
	{Kind: CircleReward, Quantity: 20},
	{Kind: DiamondReward, Quantity: 20},
	{Kind: HeartReward, Quantity: 20},
}

func (c Catalog) Total() (n int) {
	for _, e := range c {
		n += e.Quantity
	}
	return
}

func (c Catalog) Quantity(kind ItemKind) (n int) {
	for _, e := range c {
		if e.Kind == kind {
			n += e.Quantity
		}
	}
	return
}
