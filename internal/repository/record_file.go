package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type fileRecordRepository struct {
	dir string
}

// NewFileRecordRepository - one file per record inside dir, created on demand.
func NewFileRecordRepository(dir string) (RecordRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create records directory: %w", err)
	}

	return &fileRecordRepository{dir: dir}, nil
}

func (that *fileRecordRepository) Save(_ context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	path := filepath.Join(that.dir, name)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint: gosec // records are not secret
		return fmt.Errorf("failed to write record: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace record: %w", err)
	}

	return nil
}

func (that *fileRecordRepository) Load(_ context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(that.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	return data, nil
}

func (that *fileRecordRepository) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(that.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	return sortedRecords(names), nil
}
