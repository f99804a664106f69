package profile

import (
	"sync"

	"go.uber.org/zap"

	"github.com/xtding233/grf-resolver/internal/grf"
	"github.com/xtding233/grf-resolver/internal/spritegroup"
)

// fileKey identifies a mod file across reloads: by GRF id, or by name when
// the file has no id.
type fileKey struct {
	id   uint32
	name string
}

func keyOf(file *grf.File) fileKey {
	if file == nil {
		return fileKey{id: grf.InvalidID}
	}
	if file.ID == grf.InvalidID {
		return fileKey{id: grf.InvalidID, name: file.Name}
	}
	return fileKey{id: file.ID}
}

// Registry holds the profilers of the profiled mod files.
type Registry struct {
	mu     sync.RWMutex
	byFile map[fileKey]*Profiler
	logger *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{byFile: make(map[fileKey]*Profiler), logger: logger}
}

// Attach returns the profiler for file, creating it if needed.
func (r *Registry) Attach(file *grf.File) *Profiler {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := keyOf(file)
	if p, ok := r.byFile[k]; ok {
		return p
	}
	p := New(file, r.logger)
	r.byFile[k] = p
	return p
}

// Detach removes the profiler of file.
func (r *Registry) Detach(file *grf.File) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byFile, keyOf(file))
}

// Profiler implements spritegroup.ProfilerLookup.
func (r *Registry) Profiler(file *grf.File) spritegroup.Profiler {
	r.mu.RLock()
	p, ok := r.byFile[keyOf(file)]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return p
}
