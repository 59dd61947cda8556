package imagesource

import "net/http"

// DetectImageType sniffs the image format from raw bytes and returns the
// short type name used as a file extension ("png", "jpeg", ...). Returns ""
// when the content is not a recognized image format.
func DetectImageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/bmp":
		return "bmp"
	}
	return ""
}
