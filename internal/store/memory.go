package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/pkg/persist"
)

// snapshotBasename names the snapshot file inside the snapshot directory.
const snapshotBasename = "codescope-state"

// memorySnapshot is the serialized form of a MemoryStore.
type memorySnapshot struct {
	Results  []analysis.Result      `json:"results"`
	LatestID string                 `json:"latest_id"`
	History  []analysis.HistoryItem `json:"history"`
}

// MemoryStore is the in-process Store backend. Optionally snapshots its
// state to a directory after every mutation, restoring it on construction.
type MemoryStore struct {
	mu       sync.RWMutex
	results  map[string]analysis.Result
	latestID string
	items    []analysis.HistoryItem
	pos      map[string]int

	snapshotDir string
	persister   *persist.Persister[memorySnapshot]
}

// NewMemory creates an empty in-memory store without snapshotting.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		results: make(map[string]analysis.Result),
		pos:     make(map[string]int),
	}
}

// NewMemoryWithSnapshot creates an in-memory store that persists a snapshot
// file under dir after every mutation. A snapshot already present in dir is
// restored; a missing snapshot starts the store empty.
func NewMemoryWithSnapshot(dir string) (*MemoryStore, error) {
	ms := NewMemory()
	ms.snapshotDir = dir
	ms.persister = persist.NewPersister[memorySnapshot](snapshotBasename, persist.NewJSONCodec())

	err := ms.persister.Load(dir, ms.restore)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}

	return ms, nil
}

func (ms *MemoryStore) restore(snap *memorySnapshot) {
	for _, result := range snap.Results {
		ms.results[result.ID] = result
	}

	ms.latestID = snap.LatestID
	ms.items = snap.History

	for i, item := range ms.items {
		ms.pos[item.ID] = i
	}
}

// snapshotLocked writes the current state to the snapshot directory.
// Callers must hold the write lock.
func (ms *MemoryStore) snapshotLocked() error {
	if ms.persister == nil {
		return nil
	}

	err := ms.persister.Save(ms.snapshotDir, func() *memorySnapshot {
		snap := &memorySnapshot{
			Results:  make([]analysis.Result, 0, len(ms.results)),
			LatestID: ms.latestID,
			History:  append([]analysis.HistoryItem(nil), ms.items...),
		}

		for _, item := range ms.items {
			if result, ok := ms.results[item.ID]; ok {
				snap.Results = append(snap.Results, result)
			}
		}

		return snap
	})
	if err != nil {
		return fmt.Errorf("snapshot store: %w", err)
	}

	return nil
}

// PutResult implements ReportStore.
func (ms *MemoryStore) PutResult(_ context.Context, result analysis.Result) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.results[result.ID]; exists {
		return fmt.Errorf("result %s: %w", result.ID, ErrDuplicateID)
	}

	ms.results[result.ID] = result
	ms.latestID = result.ID

	return ms.snapshotLocked()
}

// GetResult implements ReportStore.
func (ms *MemoryStore) GetResult(_ context.Context, id string) (analysis.Result, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if id == LatestAlias {
		id = ms.latestID
	}

	result, ok := ms.results[id]
	if !ok {
		return analysis.Result{}, fmt.Errorf("result %s: %w", id, ErrNotFound)
	}

	return result, nil
}

// AppendItem implements HistoryIndex.
func (ms *MemoryStore) AppendItem(_ context.Context, item analysis.HistoryItem) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.pos[item.ID]; exists {
		return fmt.Errorf("history item %s: %w", item.ID, ErrDuplicateID)
	}

	ms.pos[item.ID] = len(ms.items)
	ms.items = append(ms.items, item)

	return ms.snapshotLocked()
}

// FinalizeItem implements HistoryIndex. The swap happens under the write
// lock, so readers observe either the processing item or the terminal one.
func (ms *MemoryStore) FinalizeItem(_ context.Context, id string, item analysis.HistoryItem) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	idx, ok := ms.pos[id]
	if !ok {
		return fmt.Errorf("history item %s: %w", id, ErrNotFound)
	}

	item.ID = id
	ms.items[idx] = item

	return ms.snapshotLocked()
}

// ListItems implements HistoryIndex. The returned slice is a copy.
func (ms *MemoryStore) ListItems(_ context.Context) ([]analysis.HistoryItem, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return append([]analysis.HistoryItem(nil), ms.items...), nil
}

// DeleteItems implements HistoryIndex. Unknown ids are skipped.
func (ms *MemoryStore) DeleteItems(_ context.Context, ids []string) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	deleted := 0

	for _, id := range ids {
		idx, ok := ms.pos[id]
		if !ok {
			continue
		}

		ms.items = append(ms.items[:idx], ms.items[idx+1:]...)
		delete(ms.pos, id)

		for i := idx; i < len(ms.items); i++ {
			ms.pos[ms.items[i].ID] = i
		}

		deleted++
	}

	if deleted == 0 {
		return 0, nil
	}

	return deleted, ms.snapshotLocked()
}

// ClearItems implements HistoryIndex.
func (ms *MemoryStore) ClearItems(_ context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items = nil
	ms.pos = make(map[string]int)

	return ms.snapshotLocked()
}

// Close implements Store.
func (ms *MemoryStore) Close() error {
	return nil
}
