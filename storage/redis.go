package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultRedisPrefix = "departures:document:"
	DefaultRedisExpiry = 1 * time.Hour
)

// Stores documents as Redis hashes. Keys expire on their own after
// Expiry, so DeleteDocuments is mostly a formality.
type RedisStorage struct {
	Prefix string
	Expiry time.Duration

	rdb *redis.Client
}

func NewRedisStorage(addr string, expiry time.Duration) *RedisStorage {
	if expiry <= 0 {
		expiry = DefaultRedisExpiry
	}
	return &RedisStorage{
		Prefix: DefaultRedisPrefix,
		Expiry: expiry,
		rdb: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   0,
		}),
	}
}

func (s *RedisStorage) GetDocument(ctx context.Context, url string) (*Document, error) {
	fields, err := s.rdb.HGetAll(ctx, s.Prefix+url).Result()
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	retrievedAt, err := time.Parse(time.RFC3339Nano, fields["retrieved_at"])
	if err != nil {
		return nil, fmt.Errorf("parsing retrieved_at: %w", err)
	}

	return &Document{
		URL:         url,
		Body:        []byte(fields["body"]),
		RetrievedAt: retrievedAt,
	}, nil
}

func (s *RedisStorage) WriteDocument(ctx context.Context, doc *Document) error {
	key := s.Prefix + doc.URL

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"body", doc.Body,
			"retrieved_at", doc.RetrievedAt.UTC().Format(time.RFC3339Nano),
		)
		pipe.Expire(ctx, key, s.Expiry)
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func (s *RedisStorage) DeleteDocuments(ctx context.Context, retrievedBefore time.Time) (int64, error) {
	n := int64(0)
	iter := s.rdb.Scan(ctx, 0, s.Prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		value, err := s.rdb.HGet(ctx, key, "retrieved_at").Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("reading %s: %w", key, err)
		}
		retrievedAt, err := time.Parse(time.RFC3339Nano, value)
		if err != nil || retrievedAt.Before(retrievedBefore) {
			deleted, err := s.rdb.Del(ctx, key).Result()
			if err != nil {
				return n, fmt.Errorf("deleting %s: %w", key, err)
			}
			n += deleted
		}
	}
	if err := iter.Err(); err != nil {
		return n, fmt.Errorf("scanning keys: %w", err)
	}
	return n, nil
}

func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}
