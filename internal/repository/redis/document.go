package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	"github.com/C3604/ChronoAtlas/internal/domain/repositories"

	"github.com/redis/go-redis/v9"
)

// envelope is the stored value: the document and its revision together,
// so one GET reads both.
type envelope struct {
	Revision int64             `json:"revision"`
	Payload  *catalog.Document `json:"payload"`
}

func encodeEnvelope(doc *catalog.Document, revision int64) ([]byte, error) {
	return json.Marshal(envelope{Revision: revision, Payload: doc})
}

func decodeEnvelope(data []byte) (*catalog.Document, int64, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, 0, err
	}
	return env.Payload, env.Revision, nil
}

// NewClient creates a go-redis client and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// DocumentStore keeps the catalog document under a single Redis key.
// Saves run inside WATCH, so a concurrent write aborts the transaction.
type DocumentStore struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// NewDocumentStore creates a Redis-backed document store
func NewDocumentStore(client *redis.Client, key string, logger *slog.Logger) *DocumentStore {
	return &DocumentStore{
		client: client,
		key:    key,
		logger: logger,
	}
}

// Load implements repositories.DocumentStore.
func (s *DocumentStore) Load(ctx context.Context) (*catalog.Document, int64, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("get %s: %w", s.key, err)
	}
	doc, rev, err := decodeEnvelope(data)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return doc, rev, nil
}

// Save implements repositories.DocumentStore.
func (s *DocumentStore) Save(ctx context.Context, doc *catalog.Document, expected int64) (int64, error) {
	next := expected + 1
	data, err := encodeEnvelope(doc, next)
	if err != nil {
		return 0, fmt.Errorf("encode document: %w", err)
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, s.key).Bytes()
		var rev int64
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("get %s: %w", s.key, err)
		default:
			if _, rev, err = decodeEnvelope(current); err != nil {
				return fmt.Errorf("decode %s: %w", s.key, err)
			}
		}
		if rev != expected {
			return repositories.ErrRevisionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}, s.key)

	if errors.Is(err, redis.TxFailedErr) {
		return 0, repositories.ErrRevisionConflict
	}
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Reset deletes the document key.
func (s *DocumentStore) Reset(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", s.key, err)
	}
	s.logger.Info("document key deleted", "key", s.key)
	return nil
}
