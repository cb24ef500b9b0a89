package handlers

import (
	"github.com/gorilla/schema"

	"github.com/vancomm/mazeboard/internal/board"
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

type NewBoardDTO struct {
	Seed string `schema:"seed"`
}

// ParseNewBoardDTO reads the optional seed of a new board. A missing seed
// yields a fresh one.
func ParseNewBoardDTO(src map[string][]string) (board.Seed, error) {
	var dto NewBoardDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return board.Seed{}, err
	}
	if dto.Seed == "" {
		return board.NewSeed(), nil
	}
	return board.ParseSeed(dto.Seed)
}

type SlotDTO struct {
	Slot string `schema:"slot,required"`
}

func ParseSlotDTO(src map[string][]string) (string, error) {
	var dto SlotDTO
	err := decoder.Decode(&dto, src)
	return dto.Slot, err
}

type ItemDTO struct {
	Kind   string `json:"kind"`
	Class  string `json:"class"`
	Shape  string `json:"shape"`
	Effect int    `json:"effect"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Size   int    `json:"size"`
}

type CellDTO struct {
	Row   int      `json:"row"`
	Col   int      `json:"col"`
	Kind  string   `json:"kind"`
	X     int      `json:"x"`
	Y     int      `json:"y"`
	Size  int      `json:"size"`
	Walls string   `json:"walls,omitempty"` // "NESW", '-' for open sides
	Item  *ItemDTO `json:"item,omitempty"`
}

type BoardDTO struct {
	SessionId string    `json:"session_id"`
	Seed      string    `json:"seed"`
	Digest    string    `json:"digest"`
	Size      int       `json:"size"`
	CellSize  int       `json:"cell_size"`
	Entrance  board.Pos `json:"entrance"`
	Exit      board.Pos `json:"exit"`
	Start     board.Pos `json:"start"`
	Score     int       `json:"score"`
	Cells     []CellDTO `json:"cells"`
}

func NewBoardDTO(sessionId, seed string, b *board.Board) *BoardDTO {
	dto := &BoardDTO{
		SessionId: sessionId,
		Seed:      seed,
		Digest:    b.Digest(),
		Size:      b.Size(),
		CellSize:  b.CellSize(),
		Entrance:  b.Entrance(),
		Exit:      b.Exit(),
		Start:     b.Start(),
		Score:     b.Score(),
		Cells:     make([]CellDTO, 0, b.Size()*b.Size()),
	}
	for p, c := range b.All() {
		cell := CellDTO{
			Row:  p.Row,
			Col:  p.Col,
			Kind: c.Kind.String(),
			X:    c.X,
			Y:    c.Y,
			Size: c.Size,
		}
		if c.Kind == board.Path {
			cell.Walls = c.Walls.String()
		}
		if c.HasItem() {
			cell.Item = &ItemDTO{
				Kind:   c.Item.Kind.String(),
				Class:  c.Item.Kind.Class().String(),
				Shape:  c.Item.Kind.Shape().String(),
				Effect: c.Item.Kind.Effect(),
				X:      c.Item.X,
				Y:      c.Item.Y,
				Size:   c.Item.Size,
			}
		}
		dto.Cells = append(dto.Cells, cell)
	}
	return dto
}

type SessionDTO struct {
	SessionId string    `json:"session_id"`
	Token     string    `json:"token"`
	Board     *BoardDTO `json:"board"`
}
