package imagesource

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diffus-me/sd-webui-roop/internal/logger"
	"github.com/diffus-me/sd-webui-roop/internal/model"
	"github.com/google/uuid"
)

// ErrNoSource is returned when an image source carries none of its three
// possible fields.
var ErrNoSource = errors.New("image_url, encoded_image, image_filepath at least one is required")

// ErrFileMissing is returned when image_filepath was the only source given
// and no file exists at that path.
var ErrFileMissing = errors.New("image_filepath does not exist and no other source is given")

// Resolver turns an ImageSource into a path to a locally readable image
// file, downloading or decoding into the destination directory as needed.
type Resolver struct {
	httpClient *http.Client
}

func NewResolver(downloadTimeout time.Duration) *Resolver {
	return &Resolver{
		httpClient: &http.Client{Timeout: downloadTimeout},
	}
}

// Resolve returns a local path for src. An existing local filepath wins and
// is returned verbatim; otherwise an inline payload is decoded, otherwise
// the URL is downloaded. Decoded and downloaded files are written into
// destDir under filename (a random uuid when empty) with the extension
// corrected to match the sniffed content type.
func (r *Resolver) Resolve(ctx context.Context, src model.ImageSource, destDir, filename string) (string, error) {
	if src.ImageURL == "" && src.EncodedImage == "" && src.ImageFilepath == "" {
		return "", ErrNoSource
	}
	if src.ImageFilepath != "" {
		if _, err := os.Stat(src.ImageFilepath); err == nil {
			return src.ImageFilepath, nil
		}
	}
	if filename == "" {
		filename = uuid.NewString()
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create destination dir: %w", err)
	}
	destPath := filepath.Join(destDir, filename)
	if src.EncodedImage != "" {
		return r.writeEncoded(src.EncodedImage, destPath)
	}
	if src.ImageURL != "" {
		return r.downloadImage(ctx, src.ImageURL, destPath)
	}
	return "", ErrFileMissing
}

func (r *Resolver) writeEncoded(encoded, destPath string) (string, error) {
	// Tolerate a data-URI prefix in front of the payload.
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode encoded_image: %w", err)
	}
	if imageType := DetectImageType(decoded); imageType != "" {
		destPath = destPath + "." + imageType
	} else {
		logger.Warnf("could not determine the image type of %s", destPath)
	}
	if err := os.WriteFile(destPath, decoded, 0o644); err != nil {
		return "", fmt.Errorf("failed to write decoded image: %w", err)
	}
	return destPath, nil
}

func (r *Resolver) downloadImage(ctx context.Context, url, destPath string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to write downloaded image: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to write downloaded image: %w", err)
	}

	return fixExtension(destPath)
}

// fixExtension sniffs the file on disk and renames it when its extension
// does not match the detected image type.
func fixExtension(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read downloaded image: %w", err)
	}
	imageType := DetectImageType(data)
	if imageType == "" {
		logger.Warnf("could not determine the image type of %s", path)
		return path, nil
	}
	ext := filepath.Ext(path)
	if strings.TrimPrefix(ext, ".") == imageType {
		return path, nil
	}
	correctPath := strings.TrimSuffix(path, ext) + "." + imageType
	if err := os.Rename(path, correctPath); err != nil {
		return "", fmt.Errorf("failed to rename image file: %w", err)
	}
	return correctPath, nil
}
