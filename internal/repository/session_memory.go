package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

type memoryEntry struct {
	snapshot  entity.Snapshot
	expiresAt time.Time
}

// MemorySessionRepository keeps snapshots in process memory. Expired entries are hidden on
// read and dropped by Reap.
type MemorySessionRepository struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (that *MemorySessionRepository) Save(_ context.Context, id string, snapshot *entity.Snapshot) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[id] = memoryEntry{
		snapshot:  copySnapshot(snapshot),
		expiresAt: that.now().Add(that.ttl),
	}

	return nil
}

func (that *MemorySessionRepository) GetByID(_ context.Context, id string) (*entity.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.sessions[id]
	if !ok || !that.now().Before(entry.expiresAt) {
		return nil, apperror.ErrSessionNotFound
	}

	snapshot := copySnapshot(&entry.snapshot)

	return &snapshot, nil
}

func (that *MemorySessionRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

// Reap - drops expired sessions and returns how many were removed.
func (that *MemorySessionRepository) Reap() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	removed := 0

	for id, entry := range that.sessions {
		if now.Before(entry.expiresAt) {
			continue
		}

		delete(that.sessions, id)
		removed++
	}

	return removed
}

func (that *MemorySessionRepository) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.sessions)
}

func copySnapshot(snapshot *entity.Snapshot) entity.Snapshot {
	history := make([]entity.Board, len(snapshot.History))
	copy(history, snapshot.History)

	return entity.Snapshot{History: history, Cursor: snapshot.Cursor}
}
