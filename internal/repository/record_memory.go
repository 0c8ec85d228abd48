package repository

import (
	"context"
	"maps"
	"slices"
	"sync"
)

type memoryRecordRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryRecordRepository() RecordRepository {
	return &memoryRecordRepository{
		records: make(map[string][]byte),
	}
}

func (that *memoryRecordRepository) Save(_ context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.records[name] = slices.Clone(data)

	return nil
}

func (that *memoryRecordRepository) Load(_ context.Context, name string) ([]byte, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	data, ok := that.records[name]
	if !ok {
		return nil, ErrRecordNotFound
	}

	return slices.Clone(data), nil
}

func (that *memoryRecordRepository) List(_ context.Context) ([]string, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return sortedRecords(slices.Collect(maps.Keys(that.records))), nil
}
