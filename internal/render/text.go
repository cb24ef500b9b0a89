// Package render draws boards as text.
package render

import (
	"strings"

	"github.com/mgutz/ansi"

	"github.com/vancomm/mazeboard/internal/board"
)

// Palette decorates the three-character body drawn for a cell.
type Palette interface {
	Paint(c board.Cell, body string) string
}

type plain struct{}

func (plain) Paint(_ board.Cell, body string) string {
	return body
}

// Plain leaves the text undecorated.
var Plain Palette = plain{}

type colored struct {
	kinds map[board.CellKind]func(string) string
	items map[board.ItemKind]func(string) string
}

func (p colored) Paint(c board.Cell, body string) string {
	if c.HasItem() {
		if f, ok := p.items[c.Item.Kind]; ok {
			return f(body)
		}
	}
	if f, ok := p.kinds[c.Kind]; ok {
		return f(body)
	}
	return body
}

// ANSI colours walls, portals and items with terminal escape codes.
var ANSI Palette = colored{
	kinds: map[board.CellKind]func(string) string{
		board.Wall:     ansi.ColorFunc("magenta"),
		board.Entrance: ansi.ColorFunc("green+b"),
		board.Exit:     ansi.ColorFunc("red+b"),
	},
	items: map[board.ItemKind]func(string) string{
		board.CircleObstacle:  ansi.ColorFunc("yellow"),
		board.DiamondObstacle: ansi.ColorFunc("magenta+b"),
		board.CircleReward:    ansi.ColorFunc("cyan"),
		board.DiamondReward:   ansi.ColorFunc("blue+b"),
		board.HeartReward:     ansi.ColorFunc("red"),
	},
}

func body(c board.Cell) string {
	switch c.Kind {
	case board.Wall:
		return "###"
	case board.Entrance:
		return " > "
	case board.Exit:
		return " < "
	default:
		return " " + string(c.Item.Kind.Glyph()) + " "
	}
}

/*
Text draws b as a grid of "+---+" boxes, one line of separators above every
row of cells and one closing line below the last row:

	+---+---+---+
	|###|###|###|
	+---+---+---+
	|###| H    |
	...

Cells are three characters wide. A separator is left blank only where the
wall between two path cells has been knocked down.
*/
func Text(b *board.Board, p Palette) string {
	size := b.Size()
	var sb strings.Builder
	sb.Grow((2*size + 1) * (4*size + 2))

	for row := range size {
		writeSeparator(&sb, b, row)
		sb.WriteByte('|')
		for col := range size {
			pos := board.Pos{Row: row, Col: col}
			c := b.Cell(pos)
			sb.WriteString(p.Paint(c, body(c)))
			if col+1 < size && b.Open(pos, board.East) {
				sb.WriteByte(' ')
			} else {
				sb.WriteByte('|')
			}
		}
		sb.WriteByte('\n')
	}
	writeSeparator(&sb, b, size)
	return sb.String()
}

// writeSeparator draws the line above row; row == size draws the bottom.
func writeSeparator(sb *strings.Builder, b *board.Board, row int) {
	sb.WriteByte('+')
	for col := range b.Size() {
		if row > 0 && row < b.Size() && b.Open(board.Pos{Row: row, Col: col}, board.North) {
			sb.WriteString("   ")
		} else {
			sb.WriteString("---")
		}
		sb.WriteByte('+')
	}
	sb.WriteByte('\n')
}
