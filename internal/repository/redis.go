package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"staybook/internal/config"
	"staybook/internal/models"

	"github.com/redis/go-redis/v9"
)

var errNilClient = errors.New("redis client is nil")

type RedisSelectionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisSelectionRepository(client *redis.Client, ttl time.Duration) *RedisSelectionRepository {
	return &RedisSelectionRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisSelectionRepository) GetSelection(ctx context.Context, sessionID string, propertyID int64) (*models.ViewSelection, error) {
	if r.client == nil {
		return nil, errNilClient
	}
	val, err := r.client.Get(ctx, redisSelectionKey(sessionID, propertyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get selection from redis: %w", err)
	}

	var sel models.ViewSelection
	if err := json.Unmarshal(val, &sel); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selection: %w", err)
	}
	return &sel, nil
}

func (r *RedisSelectionRepository) SetSelection(ctx context.Context, selection *models.ViewSelection) error {
	if r.client == nil {
		return errNilClient
	}
	data, err := json.Marshal(selection)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	key := redisSelectionKey(selection.SessionID, selection.PropertyID)
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set selection in redis: %w", err)
	}
	return nil
}

func (r *RedisSelectionRepository) ClearSelection(ctx context.Context, sessionID string, propertyID int64) error {
	if r.client == nil {
		return errNilClient
	}
	if err := r.client.Del(ctx, redisSelectionKey(sessionID, propertyID)).Err(); err != nil {
		return fmt.Errorf("failed to delete selection from redis: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return errNilClient
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
