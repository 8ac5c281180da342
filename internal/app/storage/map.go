package storage

import (
	"context"
	"sync"

	"github.com/ilya-burinskiy/clipgate/internal/app/models"
)

// Inmemory storage
type MapStorage struct {
	mu        sync.RWMutex
	indexOnID map[string]int
	records   []models.Record
}

// New inmemory storage
func NewMapStorage() *MapStorage {
	return &MapStorage{
		indexOnID: make(map[string]int),
		records:   make([]models.Record, 0),
	}
}

// Find record by ID
func (ms *MapStorage) FindByID(ctx context.Context, id string) (models.Record, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	idx, ok := ms.indexOnID[id]
	if !ok {
		return models.Record{}, ErrNotFound
	}

	return ms.records[idx], nil
}

// List records in insertion order
func (ms *MapStorage) List(ctx context.Context, limit int) ([]models.Record, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	n := min(normalizeLimit(limit), len(ms.records))
	result := make([]models.Record, n)
	copy(result, ms.records[:n])

	return result, nil
}

// Put inserts the record or replaces the one stored under the same ID
func (ms *MapStorage) Put(r models.Record) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if idx, ok := ms.indexOnID[r.ID]; ok {
		ms.records[idx] = r
		return
	}

	ms.records = append(ms.records, r)
	ms.indexOnID[r.ID] = len(ms.records) - 1
}

// Restore replaces the storage content with records
func (ms *MapStorage) Restore(records []models.Record) {
	indexOnID := make(map[string]int, len(records))
	restored := make([]models.Record, 0, len(records))
	for _, r := range records {
		if idx, ok := indexOnID[r.ID]; ok {
			restored[idx] = r
			continue
		}
		restored = append(restored, r)
		indexOnID[r.ID] = len(restored) - 1
	}

	ms.mu.Lock()
	ms.records = restored
	ms.indexOnID = indexOnID
	ms.mu.Unlock()
}

// Len
func (ms *MapStorage) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return len(ms.records)
}
