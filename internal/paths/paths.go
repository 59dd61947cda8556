package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolver maps a caller to its private output area. Every path it returns
// lives under <root>/<caller>/roop/, so nothing written through it can land
// outside the caller's namespace.
type Resolver struct {
	root string
}

func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// PrivateDir returns <root>/<caller>/roop/<folder>, creating it if absent.
func (r *Resolver) PrivateDir(callerID, folder string) (string, error) {
	if callerID == "" {
		callerID = "anonymous"
	}
	// A caller id is a single path segment; strip anything that could
	// escape the root.
	callerID = filepath.Base(filepath.Clean(callerID))
	dir := filepath.Join(r.root, callerID, "roop", folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create private dir: %w", err)
	}
	return dir, nil
}

// PrivatePath returns the full path for filename inside the caller's private
// folder, creating the folder if absent.
func (r *Resolver) PrivatePath(callerID, folder, filename string) (string, error) {
	dir, err := r.PrivateDir(callerID, folder)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}
