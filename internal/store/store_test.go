package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/vancomm/mazeboard/internal/board"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := bolt.Open(filepath.Join(t.TempDir(), "boards.db"), 0o600,
		&bolt.Options{Timeout: time.Second})
	require.NoError(t, err, "failed to open bolt db")
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db, "teststore")
	require.NoError(t, err, "failed to create new store")
	return s
}

func generate(t *testing.T, lo uint64) *board.Board {
	t.Helper()
	b, err := board.Generate(board.Seed{Hi: 3, Lo: lo}.Rand())
	require.NoError(t, err)
	return b
}

func TestStoreBadName(t *testing.T) {
	s := setupTestStore(t)

	_, err := NewStore(s.db, "drop table;")
	assert.ErrorIs(t, err, ErrBadName)

	for _, slot := range []string{"", "a b", "semi;colon", string(make([]byte, 65))} {
		_, err := s.Get(slot)
		assert.ErrorIs(t, err, ErrBadName, "slot %q", slot)
		assert.ErrorIs(t, s.Set(slot, generate(t, 0)), ErrBadName, "slot %q", slot)
		assert.ErrorIs(t, s.Delete(slot), ErrBadName, "slot %q", slot)
	}
}

func TestStoreReadEmpty(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreWriteAndRead(t *testing.T) {
	s := setupTestStore(t)
	b := generate(t, 1)

	require.NoError(t, s.Set("slot-1", b))

	got, err := s.Get("slot-1")
	require.NoError(t, err)
	assert.Equal(t, b.Snapshot(), got.Snapshot())
	assert.Equal(t, b.Digest(), got.Digest())
}

func TestStoreUpdate(t *testing.T) {
	s := setupTestStore(t)
	first, second := generate(t, 1), generate(t, 2)

	require.NoError(t, s.Set("slot", first))
	require.NoError(t, s.Set("slot", second))

	got, err := s.Get("slot")
	require.NoError(t, err)
	assert.Equal(t, second.Digest(), got.Digest())
}

func TestStoreCorruptValue(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.name).Put([]byte("broken"), []byte{0xc1, 0x00})
	}))

	got, err := s.Get("broken")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, board.ErrInvalidSnapshot)
}

func TestStoreDelete(t *testing.T) {
	s := setupTestStore(t)

	require.NoError(t, s.Delete("something"), "deleting a missing slot")

	require.NoError(t, s.Set("slot", generate(t, 1)))
	require.NoError(t, s.Delete("slot"))

	_, err := s.Get("slot")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreList(t *testing.T) {
	s := setupTestStore(t)

	for _, slot := range []string{"c", "a", "d", "b"} {
		require.NoError(t, s.Set(slot, generate(t, 4)))
	}

	slots, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, slots)

	require.NoError(t, s.Delete("a"))
	slots, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, slots)
}
