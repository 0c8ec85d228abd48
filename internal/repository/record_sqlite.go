package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type sqliteRecordRepository struct {
	conn *sql.DB
}

// NewSQLiteRecordRepository - expects the records table created by sqlite.Storage.Init.
func NewSQLiteRecordRepository(conn *sql.DB) RecordRepository {
	return &sqliteRecordRepository{
		conn: conn,
	}
}

func (that *sqliteRecordRepository) Save(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	query := `INSERT INTO records (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`

	if _, err := that.conn.ExecContext(ctx, query, name, data); err != nil {
		return fmt.Errorf("can't save record: %w", err)
	}

	return nil
}

func (that *sqliteRecordRepository) Load(ctx context.Context, name string) ([]byte, error) {
	query := `SELECT data FROM records WHERE name = ?`

	var data []byte

	err := that.conn.QueryRowContext(ctx, query, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't load record: %w", err)
	}

	return data, nil
}

func (that *sqliteRecordRepository) List(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM records`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("can't list records: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("can't scan record name: %w", err)
		}
		names = append(names, name)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't list records: %w", err)
	}

	return sortedRecords(names), nil
}
