package utils

import (
	"github.com/diffus-me/sd-webui-roop/internal/model"
	"github.com/gin-gonic/gin"
)

func GinFailedWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, model.ErrorResponse{
		Message: message,
	})
}
