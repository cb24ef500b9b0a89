package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type snapshotKey struct {
	session uuid.UUID
	slot    string
}

// Memory keeps board sessions in process memory. It answers like [Queries]
// does, including [pgx.ErrNoRows] for missing rows, and loses everything on
// restart.
type Memory struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]BoardSession
	snapshots map[snapshotKey]BoardSnapshot
}

func NewMemory() *Memory {
	return &Memory{
		sessions:  make(map[uuid.UUID]BoardSession),
		snapshots: make(map[snapshotKey]BoardSnapshot),
	}
}

func now() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
}

func (m *Memory) CreateBoardSession(
	_ context.Context, params CreateBoardSessionParams,
) (*BoardSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := now()
	s := BoardSession{
		SessionId: params.SessionId,
		Seed:      params.Seed,
		State:     params.State,
		Digest:    params.Digest,
		CreatedAt: t,
		UpdatedAt: t,
	}
	m.sessions[s.SessionId] = s
	return &s, nil
}

func (m *Memory) FetchBoardSession(_ context.Context, sessionId uuid.UUID) (*BoardSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionId]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (m *Memory) UpdateBoardSession(
	_ context.Context, sessionId uuid.UUID, params UpdateBoardSessionParams,
) (*BoardSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionId]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if params.Seed != nil {
		s.Seed = *params.Seed
	}
	if params.State != nil {
		s.State = *params.State
	}
	if params.Digest != nil {
		s.Digest = *params.Digest
	}
	s.UpdatedAt = now()
	m.sessions[sessionId] = s
	return &s, nil
}

func (m *Memory) SaveSnapshot(
	_ context.Context, sessionId uuid.UUID, params SaveSnapshotParams,
) (*BoardSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionId]; !ok {
		return nil, ErrSessionNotFound
	}
	s := BoardSnapshot{
		SessionId: sessionId,
		Slot:      params.Slot,
		Seed:      params.Seed,
		State:     params.State,
		Digest:    params.Digest,
		SavedAt:   now(),
	}
	m.snapshots[snapshotKey{sessionId, params.Slot}] = s
	return &s, nil
}

func (m *Memory) FetchSnapshot(
	_ context.Context, sessionId uuid.UUID, slot string,
) (*BoardSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.snapshots[snapshotKey{sessionId, slot}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (m *Memory) ListSnapshots(_ context.Context, sessionId uuid.UUID) ([]SlotInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slots := make([]SlotInfo, 0)
	for key, s := range m.snapshots {
		if key.session == sessionId {
			slots = append(slots, SlotInfo{Slot: s.Slot, Digest: s.Digest, SavedAt: s.SavedAt})
		}
	}
	slices.SortFunc(slots, func(a, b SlotInfo) int {
		return cmp.Compare(a.Slot, b.Slot)
	})
	return slots, nil
}

func (m *Memory) DeleteSnapshot(_ context.Context, sessionId uuid.UUID, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := snapshotKey{sessionId, slot}
	if _, ok := m.snapshots[key]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.snapshots, key)
	return nil
}
