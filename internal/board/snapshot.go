package board

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const SnapshotVersion = 1

// Snapshot is the persisted form of a board. It records only what cannot be
// derived: cell geometry and item geometry are rebuilt from the lattice on
// Restore.
type Snapshot struct {
	Version  int          `json:"version"`
	Size     int          `json:"size"`
	CellSize int          `json:"cell_size"`
	Entrance Pos          `json:"entrance"`
	Exit     Pos          `json:"exit"`
	Cells    []CellRecord `json:"cells"` // row-major
}

type CellRecord struct {
	Kind  CellKind `json:"kind"`
	Walls WallMask `json:"walls,omitempty"`
	Item  ItemKind `json:"item,omitempty"`
}

func (b *Board) Snapshot() Snapshot {
	s := Snapshot{
		Version:  SnapshotVersion,
		Size:     b.grid.size,
		CellSize: b.grid.cellSize,
		Entrance: b.entrance,
		Exit:     b.exit,
		Cells:    make([]CellRecord, len(b.grid.cells)),
	}
	for i, c := range b.grid.cells {
		s.Cells[i] = CellRecord{Kind: c.Kind, Walls: c.Walls, Item: c.Item.Kind}
	}
	return s
}

// Restore rebuilds a board from a snapshot without drawing any randomness
// and validates it.
func Restore(s Snapshot) (*Board, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidSnapshot, s.Version)
	}
	if s.Size != Size || s.CellSize != CellSize {
		return nil, fmt.Errorf("%w: %dx%d grid of %d px cells",
			ErrInvalidSnapshot, s.Size, s.Size, s.CellSize)
	}
	if len(s.Cells) != s.Size*s.Size {
		return nil, fmt.Errorf("%w: %d cells", ErrInvalidSnapshot, len(s.Cells))
	}

	g := newGrid(s.Size, s.CellSize)
	if !g.InBounds(s.Entrance) || !g.InBounds(s.Exit) {
		return nil, fmt.Errorf("%w: portals %s, %s outside the grid",
			ErrInvalidSnapshot, s.Entrance, s.Exit)
	}
	for i, rec := range s.Cells {
		c := &g.cells[i]
		c.Kind = rec.Kind
		c.Walls = NoWalls
		if rec.Kind == Path {
			c.Walls = rec.Walls & AllWalls
		}
		if rec.Item != NoItem {
			c.Item = newItem(rec.Item, *c)
		}
	}

	b := &Board{grid: g, entrance: s.Entrance, exit: s.Exit}
	if side, ok := g.sideOf(s.Entrance); ok && !g.IsCorner(s.Entrance) {
		b.start = s.Entrance.Step(side.Opposite())
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return b, nil
}

func (b *Board) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b.Snapshot()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeBoard(buf []byte) (*Board, error) {
	var s Snapshot
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return Restore(s)
}

// Digest identifies the board's content. Two boards have the same digest
// exactly when their snapshots are equal.
func (b *Board) Digest() string {
	h, _ := blake2b.New256(nil) // only fails for oversized keys

	var hdr [6 * 8]byte
	for i, v := range []int{
		b.grid.size, b.grid.cellSize,
		b.entrance.Row, b.entrance.Col,
		b.exit.Row, b.exit.Col,
	} {
		binary.BigEndian.PutUint64(hdr[i*8:], uint64(v))
	}
	h.Write(hdr[:])

	rec := make([]byte, 0, 3*len(b.grid.cells))
	for _, c := range b.grid.cells {
		rec = append(rec, byte(c.Kind), byte(c.Walls), byte(c.Item.Kind))
	}
	h.Write(rec)

	return hex.EncodeToString(h.Sum(nil))
}
