package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"playpedia/internal/model"
)

const keyPrefix = "playpedia:chat:"

// RedisClient keeps each chat's list state until it has been idle for
// stateTTL.
type RedisClient struct {
	client   *redis.Client
	stateTTL time.Duration
}

func NewRedisClient(ctx context.Context, addr string, password string, db int, stateTTL time.Duration) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisClient{client: client, stateTTL: stateTTL}, nil
}

func stateKey(chatID int64) string {
	return keyPrefix + strconv.FormatInt(chatID, 10)
}

func (r *RedisClient) SaveState(ctx context.Context, chatID int64, state model.QueryState) error {
	data, err := json.Marshal(state)
	if err != nil {
		slog.Error("Error marshaling state", "error", err)
		return err
	}
	return r.client.Set(ctx, stateKey(chatID), data, r.stateTTL).Err()
}

// GetState returns nil without error when the chat has no live state.
// Reading the state restarts its TTL.
func (r *RedisClient) GetState(ctx context.Context, chatID int64) (*model.QueryState, error) {
	data, err := r.client.GetEx(ctx, stateKey(chatID), r.stateTTL).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		slog.Error("Error getting state", "error", err)
		return nil, err
	}

	var state model.QueryState
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Error("Error unmarshaling state", "error", err)
		return nil, err
	}
	return &state, nil
}

func (r *RedisClient) DeleteState(ctx context.Context, chatID int64) error {
	return r.client.Del(ctx, stateKey(chatID)).Err()
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
