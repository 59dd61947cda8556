package model

// ImageSource offers an image as a remote URL, an inline base64 payload, or
// a path already on local disk. Resolution precedence is filepath, encoded
// payload, then URL.
type ImageSource struct {
	ImageURL string `json:"image_url"`

	EncodedImage string `json:"encoded_image"`

	ImageFilepath string `json:"image_filepath"`
}

type RequestUpscaleOptions struct {
	Scale int `json:"scale"`

	UpscalerName string `json:"upscaler_name"`

	UpscaleVisibility float64 `json:"upscale_visibility"`

	FaceRestorerName string `json:"face_restorer_name"`

	RestorerVisibility float64 `json:"restorer_visibility"`
}

type SwapTaskRequest struct {
	TaskId string `json:"task_id" binding:"required"`

	SourceImage ImageSource `json:"source_image"`

	SwapImage ImageSource `json:"swap_image"`

	FaceIndex int `json:"face_index"`

	Model string `json:"model"`

	UpscaleOptions RequestUpscaleOptions `json:"upscale_options"`
}

// NewSwapTaskRequest returns a request pre-filled with defaults; binding a
// JSON body on top of it leaves absent fields at their default values.
func NewSwapTaskRequest() SwapTaskRequest {
	return SwapTaskRequest{
		Model: "roop/inswapper_128.onnx",
		UpscaleOptions: RequestUpscaleOptions{
			Scale:              1,
			UpscaleVisibility:  1.0,
			FaceRestorerName:   "CodeFormer",
			RestorerVisibility: 1.0,
		},
	}
}

type SwapTaskResponse struct {
	TaskId string `json:"task_id"`

	EncodedImage string `json:"encoded_image"`

	StartTime string `json:"start_time"`

	FinishTime string `json:"finish_time"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
