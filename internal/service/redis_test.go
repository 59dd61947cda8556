package service

import (
	"context"
	"testing"
	"time"

	"github.com/diffus-me/sd-webui-roop/internal/config"
	"github.com/diffus-me/sd-webui-roop/internal/model"
)

// The cache contract is soft failure: an unreachable redis must surface as
// ordinary errors the handler can treat as misses, never a panic.
func TestRedisCache_Unreachable(t *testing.T) {
	cache := NewRedisCache(&config.RedisConfig{
		Addr: "127.0.0.1:1",
		TTL:  time.Minute,
	})
	defer cache.Close()
	ctx := context.Background()

	if err := cache.Ping(ctx); err == nil {
		t.Fatal("expected ping error for unreachable redis")
	}

	resp, err := cache.GetSwapResponse(ctx, "t1")
	if err == nil {
		t.Fatal("expected get error for unreachable redis")
	}
	if resp != nil {
		t.Fatalf("expected nil response on error, got %+v", resp)
	}

	if err := cache.SetSwapResponse(ctx, "t1", &model.SwapTaskResponse{TaskId: "t1"}); err == nil {
		t.Fatal("expected set error for unreachable redis")
	}
}
