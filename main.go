package main

import (
	"context"

	"github.com/diffus-me/sd-webui-roop/internal/config"
	"github.com/diffus-me/sd-webui-roop/internal/engine"
	"github.com/diffus-me/sd-webui-roop/internal/imagesource"
	"github.com/diffus-me/sd-webui-roop/internal/logger"
	"github.com/diffus-me/sd-webui-roop/internal/paths"
	"github.com/diffus-me/sd-webui-roop/internal/server"
	"github.com/diffus-me/sd-webui-roop/internal/server/handler"
	"github.com/diffus-me/sd-webui-roop/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.New()
	gin.SetMode(cfg.Server.Mode)
	defer logger.Sync()

	cache := service.NewRedisCache(&cfg.Redis)
	if err := cache.Ping(context.Background()); err != nil {
		logger.Warnf("redis unreachable, task cache degraded to soft-miss: %s", err)
	}
	defer cache.Close()

	upscalers := make([]*engine.UpscalerData, 0, len(cfg.Registry.Upscalers))
	for _, u := range cfg.Registry.Upscalers {
		upscalers = append(upscalers, &engine.UpscalerData{Name: u.Name, Scale: u.Scale})
	}
	faceRestorers := make([]engine.FaceRestorer, 0, len(cfg.Registry.FaceRestorers))
	for _, name := range cfg.Registry.FaceRestorers {
		faceRestorers = append(faceRestorers, engine.NewFaceRestorer(name))
	}
	registry := engine.NewRegistry(upscalers, faceRestorers)

	swapHandler := handler.NewSwapHandler(
		engine.NewClient(cfg.Engine.URL, cfg.Engine.Timeout),
		registry,
		paths.NewResolver(cfg.Outputs.RootDir),
		imagesource.NewResolver(cfg.Download.Timeout),
		cache,
		cfg.Engine.Models,
	)

	router := server.InnitRouter(cfg.Server.APIKey, swapHandler)
	logger.Infof("service is starting, host: %s, port: %s", cfg.Server.Host, cfg.Server.Port)
	server.Start(cfg.Server.Host, cfg.Server.Port, router)
}
