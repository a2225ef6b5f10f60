package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStateRepository хранит состояния диалогов в Redis в виде JSON.
// Состояния переживают перезапуск и общие для всех экземпляров бота.
type RedisStateRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStateRepository создает хранилище; ttl = 0 означает без истечения.
func NewRedisStateRepository(client *redis.Client, prefix string, ttl time.Duration) *RedisStateRepository {
	if prefix == "" {
		prefix = "jobbot:state"
	}
	return &RedisStateRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStateRepository) key(userID int64) string {
	return r.prefix + ":" + strconv.FormatInt(userID, 10)
}

func (r *RedisStateRepository) Get(ctx context.Context, userID int64) (State, error) {
	payload, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return idleState(), nil
		}
		return State{}, fmt.Errorf("redis get state: %w", err)
	}
	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}

func (r *RedisStateRepository) Save(ctx context.Context, userID int64, state State) error {
	if !state.Active() {
		return r.Clear(ctx, userID)
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := r.client.Set(ctx, r.key(userID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set state: %w", err)
	}
	return nil
}

func (r *RedisStateRepository) Clear(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis clear state: %w", err)
	}
	return nil
}
