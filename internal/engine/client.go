package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client calls the inference backend that hosts the swap models. It sends
// both input images inline and receives the composited result the same way.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type swapFaceRequest struct {
	FaceImage          string  `json:"face_image"`
	SwapImage          string  `json:"swap_image"`
	Model              string  `json:"model"`
	FacesIndex         []int   `json:"faces_index"`
	Scale              int     `json:"scale"`
	Upscaler           string  `json:"upscaler"`
	UpscaleVisibility  float64 `json:"upscale_visibility"`
	FaceRestorer       string  `json:"face_restorer"`
	RestorerVisibility float64 `json:"restorer_visibility"`
}

type swapFaceResponse struct {
	Image string `json:"image"`
}

func (c *Client) SwapFace(ctx context.Context, faceImagePath, swapImagePath, model string, facesIndex []int, options UpscaleOptions) (*ImageResult, error) {
	faceImage, err := encodeFile(faceImagePath)
	if err != nil {
		return nil, err
	}
	swapImage, err := encodeFile(swapImagePath)
	if err != nil {
		return nil, err
	}

	payload := swapFaceRequest{
		FaceImage:          faceImage,
		SwapImage:          swapImage,
		Model:              model,
		FacesIndex:         facesIndex,
		Scale:              options.Scale,
		UpscaleVisibility:  options.UpscaleVisibility,
		RestorerVisibility: options.RestorerVisibility,
	}
	if options.Upscaler != nil {
		payload.Upscaler = options.Upscaler.Name
	}
	if options.FaceRestorer != nil {
		payload.FaceRestorer = options.FaceRestorer.Name()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal swap request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/swap", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build swap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("swap request failed: %w", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read swap response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("swap request failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result swapFaceResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swap response: %w", err)
	}
	// The backend signals "no face found / nothing produced" with an empty
	// image field, not an error status.
	if result.Image == "" {
		return &ImageResult{}, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(result.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to decode swap result: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode swap result image: %w", err)
	}
	return &ImageResult{Image: img}, nil
}

func encodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
