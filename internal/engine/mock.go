package engine

import (
	"context"
	"sync"
)

// MockCall records the arguments of one SwapFace invocation.
type MockCall struct {
	FaceImagePath string
	SwapImagePath string
	Model         string
	FacesIndex    []int
	Options       UpscaleOptions
}

// Mock is a FaceSwapper returning canned results, for tests.
type Mock struct {
	mu     sync.Mutex
	Result *ImageResult
	Err    error
	Calls  []MockCall
}

func NewMock() *Mock {
	return &Mock{Result: &ImageResult{}}
}

func (m *Mock) SwapFace(_ context.Context, faceImagePath, swapImagePath, model string, facesIndex []int, options UpscaleOptions) (*ImageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{
		FaceImagePath: faceImagePath,
		SwapImagePath: swapImagePath,
		Model:         model,
		FacesIndex:    facesIndex,
		Options:       options,
	})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}
