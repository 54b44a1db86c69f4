package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Redis implements Store on a single go-redis client.
type Redis struct {
	client *goredis.Client
}

var _ Store = (*Redis)(nil)

// NewRedis connects to the store at url (redis:// or rediss://) and
// verifies the connection with a short ping.
func NewRedis(url string) (*Redis, error) {

	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("kvstore: invalid redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Redis{client: client}, nil

}

// wrap converts transport failures into ErrUnavailable. redis.Nil is
// handled by the callers that expect it and never reaches here.
func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

func (r *Redis) Set(ctx context.Context, key, val string, ttl time.Duration, onlyIfAbsent bool) (bool, error) {
	if onlyIfAbsent {
		ok, err := r.client.SetNX(ctx, key, val, ttl).Result()
		if err != nil {
			return false, wrap("SETNX", err)
		}
		return ok, nil
	}
	if err := r.client.Set(ctx, key, val, ttl).Err(); err != nil {
		return false, wrap("SET", err)
	}
	return true, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrap("GET", err)
	}
	return val, true, nil
}

func (r *Redis) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, wrap("DEL", err)
	}
	return n > 0, nil
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, wrap("EXISTS", err)
	}
	return n > 0, nil
}

func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		return false, wrap("EXPIRE", err)
	}
	return ok, nil
}

func (r *Redis) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, wrap("TTL", err)
	}
	return d, nil
}

func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, wrap("INCR", err)
	}
	return n, nil
}

func (r *Redis) SAdd(ctx context.Context, key string, members ...string) (int64, error) {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	n, err := r.client.SAdd(ctx, key, args...).Result()
	if err != nil {
		return 0, wrap("SADD", err)
	}
	return n, nil
}

func (r *Redis) SIsMember(ctx context.Context, key, member string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, wrap("SISMEMBER", err)
	}
	return ok, nil
}

func (r *Redis) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, wrap("SMEMBERS", err)
	}
	return members, nil
}

// Scan walks the keyspace with SCAN rather than KEYS so iteration stays
// incremental. The loop ends when the cursor comes back to 0.
func (r *Redis) Scan(ctx context.Context, pattern string) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		chunk, next, err := r.client.Scan(ctx, cursor, pattern, 50).Result()
		if err != nil {
			return nil, wrap("SCAN", err)
		}
		keys = append(keys, chunk...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

func (r *Redis) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.Set(ctx, key, "1", ttl, true)
}

func (r *Redis) ReleaseLock(ctx context.Context, key string) error {
	_, err := r.Delete(ctx, key)
	return err
}

func (r *Redis) Close() error {
	return r.client.Close()
}
