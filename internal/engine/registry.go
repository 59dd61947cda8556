package engine

// Registry is the read-only lookup of named upscalers and face restorers
// available to option mapping. Lookups are by exact name; a miss yields nil
// rather than an error, which the swap call treats as "skip that stage".
type Registry struct {
	upscalers     []*UpscalerData
	faceRestorers []FaceRestorer
}

func NewRegistry(upscalers []*UpscalerData, faceRestorers []FaceRestorer) *Registry {
	return &Registry{
		upscalers:     upscalers,
		faceRestorers: faceRestorers,
	}
}

func (r *Registry) Upscaler(name string) *UpscalerData {
	for _, u := range r.upscalers {
		if u.Name == name {
			return u
		}
	}
	return nil
}

func (r *Registry) FaceRestorer(name string) FaceRestorer {
	for _, f := range r.faceRestorers {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

func (r *Registry) UpscalerNames() []string {
	names := make([]string, 0, len(r.upscalers))
	for _, u := range r.upscalers {
		names = append(names, u.Name)
	}
	return names
}

func (r *Registry) FaceRestorerNames() []string {
	names := make([]string, 0, len(r.faceRestorers))
	for _, f := range r.faceRestorers {
		names = append(names, f.Name())
	}
	return names
}

type namedFaceRestorer struct {
	name string
}

func (f namedFaceRestorer) Name() string {
	return f.name
}

// NewFaceRestorer returns a FaceRestorer known to the backend by name only.
func NewFaceRestorer(name string) FaceRestorer {
	return namedFaceRestorer{name: name}
}
