package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/diffus-me/sd-webui-roop/internal/engine"
	"github.com/diffus-me/sd-webui-roop/internal/imagesource"
	"github.com/diffus-me/sd-webui-roop/internal/logger"
	"github.com/diffus-me/sd-webui-roop/internal/model"
	"github.com/diffus-me/sd-webui-roop/internal/paths"
	"github.com/diffus-me/sd-webui-roop/internal/tasks"
	"github.com/diffus-me/sd-webui-roop/internal/utils"
	"github.com/gin-gonic/gin"
)

const timestampFormat = "2006-01-02T15:04:05Z"

// CallerHeader selects the per-caller private output area.
const CallerHeader = "X-User-Id"

// TaskCache stores completed swap responses by task id. Failures are soft:
// a Get error is treated as a miss and a Set error only logs.
type TaskCache interface {
	GetSwapResponse(ctx context.Context, taskId string) (*model.SwapTaskResponse, error)
	SetSwapResponse(ctx context.Context, taskId string, resp *model.SwapTaskResponse) error
}

type SwapHandler struct {
	swapper  engine.FaceSwapper
	registry *engine.Registry
	paths    *paths.Resolver
	sources  *imagesource.Resolver
	cache    TaskCache
	inflight *tasks.InflightSet
	models   []string
}

func NewSwapHandler(
	swapper engine.FaceSwapper,
	registry *engine.Registry,
	pathResolver *paths.Resolver,
	sourceResolver *imagesource.Resolver,
	cache TaskCache,
	models []string,
) *SwapHandler {
	return &SwapHandler{
		swapper:  swapper,
		registry: registry,
		paths:    pathResolver,
		sources:  sourceResolver,
		cache:    cache,
		inflight: tasks.NewInflightSet(),
		models:   models,
	}
}

// SwapSingleImage runs one face-swap task end to end: resolve both image
// sources into the caller's private area, call the swap backend, persist the
// result PNG and return it inline.
func (h *SwapHandler) SwapSingleImage(c *gin.Context) {
	req := model.NewSwapTaskRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.GinFailedWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	callerID := c.GetHeader(CallerHeader)
	ctx := c.Request.Context()

	if h.cache != nil {
		if cached, err := h.cache.GetSwapResponse(ctx, req.TaskId); err != nil {
			logger.Warnf("failed to get cached response for task %s: %s", req.TaskId, err)
		} else if cached != nil {
			logger.Infof("task %s served from cache", req.TaskId)
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	if !h.inflight.Acquire(req.TaskId) {
		utils.GinFailedWithMessage(c, http.StatusConflict, fmt.Sprintf("task %s is already being processed", req.TaskId))
		return
	}
	defer h.inflight.Release(req.TaskId)

	startTime := time.Now().UTC()
	utcDateStr := startTime.Format("2006-01-02")

	faceImagePath, ok := h.resolveSource(c, callerID, req.SourceImage, path.Join("face", utcDateStr), req.TaskId)
	if !ok {
		return
	}
	swapImagePath, ok := h.resolveSource(c, callerID, req.SwapImage, path.Join("swap", utcDateStr), req.TaskId)
	if !ok {
		return
	}

	result, err := h.swapper.SwapFace(
		ctx,
		faceImagePath,
		swapImagePath,
		req.Model,
		[]int{req.FaceIndex},
		engine.ResolveUpscaleOptions(h.registry, req.UpscaleOptions),
	)
	if err != nil {
		logger.Errorf("task %s swap failed: %s", req.TaskId, err)
		utils.GinFailedWithMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil || result.Image == nil {
		utils.GinFailedWithMessage(c, http.StatusBadRequest, "roop process image failed")
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result.Image); err != nil {
		utils.GinFailedWithMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	outputPath, err := h.paths.PrivatePath(callerID, path.Join("output", utcDateStr), req.TaskId+".png")
	if err != nil {
		utils.GinFailedWithMessage(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		utils.GinFailedWithMessage(c, http.StatusInternalServerError, fmt.Sprintf("failed to save result image: %s", err))
		return
	}
	finishTime := time.Now().UTC()
	logger.Infof("task %s completed, output: %s", req.TaskId, outputPath)

	resp := model.SwapTaskResponse{
		TaskId:       req.TaskId,
		EncodedImage: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		StartTime:    startTime.Format(timestampFormat),
		FinishTime:   finishTime.Format(timestampFormat),
	}
	if h.cache != nil {
		if err := h.cache.SetSwapResponse(ctx, req.TaskId, &resp); err != nil {
			logger.Warnf("failed to cache response for task %s: %s", req.TaskId, err)
		}
	}
	c.JSON(http.StatusOK, &resp)
}

// resolveSource fetches one image source into the caller's private source
// folder, answering the request itself on failure.
func (h *SwapHandler) resolveSource(c *gin.Context, callerID string, src model.ImageSource, folder, filename string) (string, bool) {
	destDir, err := h.paths.PrivateDir(callerID, path.Join("source", folder))
	if err != nil {
		utils.GinFailedWithMessage(c, http.StatusInternalServerError, err.Error())
		return "", false
	}
	imagePath, err := h.sources.Resolve(c.Request.Context(), src, destDir, filename)
	if err != nil {
		if errors.Is(err, imagesource.ErrNoSource) || errors.Is(err, imagesource.ErrFileMissing) {
			utils.GinFailedWithMessage(c, http.StatusBadRequest, err.Error())
		} else {
			logger.Errorf("failed to resolve image source into %s: %s", destDir, err)
			utils.GinFailedWithMessage(c, http.StatusInternalServerError, err.Error())
		}
		return "", false
	}
	return imagePath, true
}

func (h *SwapHandler) ListUpscalers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"upscalers": h.registry.UpscalerNames()})
}

func (h *SwapHandler) ListFaceRestorers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"face_restorers": h.registry.FaceRestorerNames()})
}

func (h *SwapHandler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.models})
}
