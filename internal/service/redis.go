package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/diffus-me/sd-webui-roop/internal/config"
	"github.com/diffus-me/sd-webui-roop/internal/logger"
	"github.com/diffus-me/sd-webui-roop/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores completed swap responses keyed by task id, so a retried
// task id returns the previous result instead of re-running the swap. The
// cache is best-effort: every failure is a soft miss.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg *config.RedisConfig) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}
}

func (s *RedisCache) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisCache) GetSwapResponse(ctx context.Context, taskId string) (*model.SwapTaskResponse, error) {
	data, err := s.client.Get(ctx, taskKey(taskId)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var resp model.SwapTaskResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.Errorf("failed to unmarshal cached response for task %s: %s", taskId, err)
		return nil, err
	}

	return &resp, nil
}

func (s *RedisCache) SetSwapResponse(ctx context.Context, taskId string, resp *model.SwapTaskResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, taskKey(taskId), data, s.ttl).Err()
}

func (s *RedisCache) Close() error {
	return s.client.Close()
}

func taskKey(taskId string) string {
	return "roop:task:" + taskId
}
