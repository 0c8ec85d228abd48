package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

type redisRecordRepository struct {
	client *redis.Client
}

func NewRedisRecordRepository(client *redis.Client) RecordRepository {
	return &redisRecordRepository{
		client: client,
	}
}

func (that *redisRecordRepository) Save(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if err := that.client.Set(ctx, recordKeyPrefix+name, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set record: %w", err)
	}

	return nil
}

func (that *redisRecordRepository) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := that.client.Get(ctx, recordKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return data, nil
}

func (that *redisRecordRepository) List(ctx context.Context) ([]string, error) {
	var names []string

	iter := that.client.Scan(ctx, 0, recordKeyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), recordKeyPrefix))
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}

	return sortedRecords(names), nil
}
