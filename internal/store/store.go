// Package store keeps named board snapshots in a local bbolt file.
package store

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/vancomm/mazeboard/internal/board"
)

type Store struct {
	name []byte
	db   *bolt.DB
}

var (
	ErrBadName  = errors.New("bad name for store")
	ErrNotFound = errors.New("value not found")
)

const maxNameLen = 64

// ValidName reports whether s may be used as a store or slot name: 1 to 64
// Latin letters, digits, dashes and underscores.
func ValidName(s string) bool {
	if len(s) == 0 || len(s) > maxNameLen {
		return false
	}
	for _, c := range s {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}

// Creates a new [Store] instance backed by the bucket called name, creating
// the bucket if needed.
func NewStore(db *bolt.DB, name string) (*Store, error) {
	if !ValidName(name) {
		return nil, ErrBadName
	}
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Store{name: []byte(name), db: db}, nil
}

func encode(b *board.Board) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(b.Snapshot()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (*board.Board, error) {
	var s board.Snapshot
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", board.ErrInvalidSnapshot, err)
	}
	return board.Restore(s)
}

// Retrieve the board saved in slot. If nothing is saved there, [ErrNotFound] is
// returned; a snapshot that no longer restores yields an error wrapping
// [board.ErrInvalidSnapshot].
func (s *Store) Get(slot string) (*board.Board, error) {
	if !ValidName(slot) {
		return nil, ErrBadName
	}
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.name).Get([]byte(slot))
		if v == nil {
			return ErrNotFound
		}
		data = bytes.Clone(v) // v is only valid inside the transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// Inserts a new slot or overwrites an existing one.
func (s *Store) Set(slot string, b *board.Board) error {
	if !ValidName(slot) {
		return ErrBadName
	}
	data, err := encode(b)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.name).Put([]byte(slot), data)
	})
}

// Deletes slot from store without checking if it existed.
func (s *Store) Delete(slot string) error {
	if !ValidName(slot) {
		return ErrBadName
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.name).Delete([]byte(slot))
	})
}

// List returns the saved slot names in lexical order.
func (s *Store) List() ([]string, error) {
	var slots []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.name).ForEach(func(k, _ []byte) error {
			slots = append(slots, string(k))
			return nil
		})
	})
	return slots, err
}
