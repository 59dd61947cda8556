package server

import (
	"net/http"
	"time"

	"github.com/diffus-me/sd-webui-roop/internal/logger"
	"github.com/diffus-me/sd-webui-roop/internal/server/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
)

func Start(host, port string, router *gin.Engine) {
	if err := router.Run(host + ":" + port); err != nil {
		panic(err)
	}
}

func PermissionCheckMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestKey := c.GetHeader("API-KEY")
		if requestKey != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid API key",
			})
			return
		}
		c.Next()
	}
}

func InnitRouter(apiKey string, swapHandler *handler.SwapHandler) *gin.Engine {
	router := gin.New()
	router.Use(ginzap.RecoveryWithZap(logger.ZapLogger, true))
	router.Use(ginzap.Ginzap(logger.ZapLogger, time.RFC3339Nano, true))
	router.Use(cors.Default())
	pprof.Register(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("", PermissionCheckMiddleware(apiKey))
	apiGroup.POST("/internal/roop/image", swapHandler.SwapSingleImage)

	apiGroup.GET("/internal/roop/upscalers", swapHandler.ListUpscalers)
	apiGroup.GET("/internal/roop/face-restorers", swapHandler.ListFaceRestorers)
	apiGroup.GET("/internal/roop/models", swapHandler.ListModels)
	return router
}
