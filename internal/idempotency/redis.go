// Package idempotency remembers which order an Idempotency-Key produced so a
// retried POST /orders does not place the order twice.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const pending = "pending"

type State int

const (
	// StateNew means the caller now owns the key and must Complete or Release it.
	StateNew State = iota
	// StateInFlight means another request with the same key is still running.
	StateInFlight
	// StateDone means the key already produced an order.
	StateDone
)

type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl}
}

func (s *RedisStore) OrderKey(userID uuid.UUID, key string) string {
	return "idem:order:" + userID.String() + ":" + key
}

// Begin claims key for userID, or reports what an earlier request did with it.
func (s *RedisStore) Begin(ctx context.Context, userID uuid.UUID, key string) (State, uuid.UUID, error) {
	k := s.OrderKey(userID, key)

	// the marker can expire between SetNX and Get; one more round settles it
	for range 2 {
		ok, err := s.Client.SetNX(ctx, k, pending, s.TTL).Result()
		if err != nil {
			return 0, uuid.Nil, err
		}
		if ok {
			return StateNew, uuid.Nil, nil
		}

		v, err := s.Client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return 0, uuid.Nil, err
		}
		if v == pending {
			return StateInFlight, uuid.Nil, nil
		}

		orderID, err := uuid.Parse(v)
		if err != nil {
			return 0, uuid.Nil, err
		}
		return StateDone, orderID, nil
	}
	return StateInFlight, uuid.Nil, nil
}

func (s *RedisStore) Complete(ctx context.Context, userID uuid.UUID, key string, orderID uuid.UUID) error {
	return s.Client.Set(ctx, s.OrderKey(userID, key), orderID.String(), s.TTL).Err()
}

// Release drops the claim so the same key can be retried after a failure.
func (s *RedisStore) Release(ctx context.Context, userID uuid.UUID, key string) error {
	return s.Client.Del(ctx, s.OrderKey(userID, key)).Err()
}
