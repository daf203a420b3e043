package store

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "visionlink:session:"

// RedisStore keeps the record as one JSON string value, so a single SET replaces
// token, user and chat id together.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(ctx context.Context, redisURL, profile string) (*RedisStore, error) {
	if redisURL == "" {
		return nil, errors.New("redis url is required")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return NewRedisStoreFromClient(client, profile), nil
}

func NewRedisStoreFromClient(client *redis.Client, profile string) *RedisStore {
	return &RedisStore{client: client, key: redisKeyPrefix + profile}
}

func (r *RedisStore) Load(ctx context.Context) (*Record, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "decode session record: %v", err)
	}
	return &rec, nil
}

func (r *RedisStore) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("nil session record")
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode session record")
	}
	// No TTL: expiry is enforced by the API rejecting stale tokens.
	if err := r.client.Set(ctx, r.key, b, 0).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}

func (r *RedisStore) Close() error { return r.client.Close() }
