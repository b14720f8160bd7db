package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session records in Redis with a TTL equal to the time
// left in the session's validity window, so the backend reaps expired
// sessions on its own.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ SessionStore = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "auth:session:",
	}
}

// WithPrefix overrides the key namespace
func (r *RedisStore) WithPrefix(prefix string) *RedisStore {
	if prefix != "" {
		r.prefix = prefix
	}
	return r
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Create(ctx context.Context, rec *SessionRecord) error {
	return r.write(ctx, rec)
}

func (r *RedisStore) Get(ctx context.Context, id string) (*SessionRecord, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "session store read failed")
	}

	rec := &SessionRecord{}
	if err := json.Unmarshal([]byte(val), rec); err != nil {
		return nil, ErrUnableToDecodeSession
	}

	return rec, nil
}

func (r *RedisStore) Update(ctx context.Context, rec *SessionRecord) error {
	return r.write(ctx, rec)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "session store delete failed")
	}
	return nil
}

func (r *RedisStore) write(ctx context.Context, rec *SessionRecord) error {
	if rec == nil || rec.ID == "" {
		return errors.New("session record requires an id", errors.CategoryBadInput)
	}

	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		// do not resurrect an already expired session
		return r.Delete(ctx, rec.ID)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to encode session record")
	}

	if err := r.client.Set(ctx, r.key(rec.ID), data, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "session store write failed")
	}

	return nil
}
