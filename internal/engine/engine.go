package engine

import (
	"context"
	"image"
)

// UpscalerData identifies a registered upscaler by name.
type UpscalerData struct {
	Name  string
	Scale int
}

// FaceRestorer is a registered face restoration collaborator.
type FaceRestorer interface {
	Name() string
}

// UpscaleOptions carries the post-processing collaborators for one swap
// call. A nil Upscaler or FaceRestorer means that stage is skipped.
type UpscaleOptions struct {
	Scale              int
	Upscaler           *UpscalerData
	FaceRestorer       FaceRestorer
	UpscaleVisibility  float64
	RestorerVisibility float64
}

// ImageResult is the outcome of a swap call. Image is nil when the backend
// processed the request but produced no image.
type ImageResult struct {
	Image image.Image
}

// FaceSwapper performs the face swap itself. facesIndex selects which
// detected faces in the swap image are replaced.
type FaceSwapper interface {
	SwapFace(ctx context.Context, faceImagePath, swapImagePath, model string, facesIndex []int, options UpscaleOptions) (*ImageResult, error)
}
