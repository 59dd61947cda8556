package engine

import "github.com/diffus-me/sd-webui-roop/internal/model"

// ResolveUpscaleOptions maps the flat request parameters onto registry
// collaborators. Names with no registry match resolve to nil slots, never
// an error.
func ResolveUpscaleOptions(registry *Registry, opts model.RequestUpscaleOptions) UpscaleOptions {
	return UpscaleOptions{
		Scale:              opts.Scale,
		Upscaler:           registry.Upscaler(opts.UpscalerName),
		FaceRestorer:       registry.FaceRestorer(opts.FaceRestorerName),
		UpscaleVisibility:  opts.UpscaleVisibility,
		RestorerVisibility: opts.RestorerVisibility,
	}
}
