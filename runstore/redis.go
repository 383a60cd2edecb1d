package runstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash that holds run records. A sorted set named
// with a ":finished" suffix indexes them by finish time.
const DefaultRedisKey = "cyclegraph:runs"

// RedisConfig configures a Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Key names the hash. Empty uses DefaultRedisKey.
	Key string
}

// RedisAdapter stores run records as JSON fields of a single Redis hash.
type RedisAdapter struct {
	client *redis.Client
	key    string
}

// NewRedisAdapter connects to Redis and verifies the connection.
func NewRedisAdapter(ctx context.Context, cfg RedisConfig) (*RedisAdapter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("runstore: connect to redis %s: %w", cfg.Addr, err)
	}
	return NewRedisAdapterFromClient(client, cfg.Key), nil
}

// NewRedisAdapterFromClient wraps an existing client. The adapter takes
// ownership and closes the client in Close.
func NewRedisAdapterFromClient(client *redis.Client, key string) *RedisAdapter {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisAdapter{client: client, key: key}
}

// Close closes the underlying client.
func (r *RedisAdapter) Close() error {
	return r.client.Close()
}

// Save stores rec in the hash and indexes it by finish time.
func (r *RedisAdapter) Save(ctx context.Context, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return &SerializationError{RunID: rec.RunID, Err: err}
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.key, rec.RunID, raw)
		pipe.ZAdd(ctx, r.index(), redis.Z{Score: float64(rec.FinishedAt.UnixMilli()), Member: rec.RunID})
		return nil
	})
	return err
}

// Find returns the record for runID.
func (r *RedisAdapter) Find(ctx context.Context, runID string) (Record, bool, error) {
	raw, err := r.client.HGet(ctx, r.key, runID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	rec, err := decodeRecord(runID, raw)
	return rec, err == nil, err
}

// Remove drops the record for runID and its index entry.
func (r *RedisAdapter) Remove(ctx context.Context, runID string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, r.key, runID)
		pipe.ZRem(ctx, r.index(), runID)
		return nil
	})
	return err
}

// Count returns the number of stored records.
func (r *RedisAdapter) Count(ctx context.Context) (int, error) {
	n, err := r.client.HLen(ctx, r.key).Result()
	return int(n), err
}

// Recent returns up to n records, newest first. A bounded read only
// fetches the run IDs at the top of the finish-time index.
func (r *RedisAdapter) Recent(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		all, err := r.client.HGetAll(ctx, r.key).Result()
		if err != nil {
			return nil, err
		}
		recs := make([]Record, 0, len(all))
		for id, v := range all {
			rec, err := decodeRecord(id, []byte(v))
			if err != nil {
				return nil, err
			}
			recs = append(recs, rec)
		}
		return truncate(recs, 0), nil
	}

	ids, err := r.client.ZRevRange(ctx, r.index(), 0, int64(n-1)).Result()
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	vals, err := r.client.HMGet(ctx, r.key, ids...).Result()
	if err != nil {
		return nil, err
	}
	recs := make([]Record, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		rec, err := decodeRecord(ids[i], []byte(raw))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return truncate(recs, n), nil
}

func (r *RedisAdapter) index() string {
	return r.key + ":finished"
}

func decodeRecord(runID string, raw []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, &SerializationError{RunID: runID, Err: err}
	}
	return rec, nil
}
