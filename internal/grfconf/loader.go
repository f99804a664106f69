// Package grfconf loads sprite group definitions from YAML and builds the
// group graphs the resolver runs on.
package grfconf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

var ErrUnknownGRF = errors.New("unknown grf definition")

// Paths helper for default/grf definition files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/grf-resolver/config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "grfs", "default.yaml")
}
func (p Paths) GRFPath(name string) string {
	return filepath.Join(p.BaseDir, "grfs", name+".yaml")
}

// Watched lists the files a definition depends on.
func (p Paths) Watched(name string) []string {
	return []string{p.DefaultPath(), p.GRFPath(name)}
}

// Loader reads YAML definitions and merges default → grf.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: grf name
}

// NewLoader creates a definition loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// Paths returns the file layout the loader reads from.
func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → grf. The default file is optional,
// the grf file is not. It returns the merged RawConfig without validation.
func (l *Loader) LoadMerged(name string) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, _, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	grfCfg, found, err := readYAML(l.paths.GRFPath(name))
	if err != nil {
		return RawConfig{}, fmt.Errorf("read grf %q: %w", name, err)
	}
	if !found {
		return RawConfig{}, fmt.Errorf("%w: %q", ErrUnknownGRF, name)
	}

	merged := mergeRaw(defCfg, grfCfg)
	if merged.Name == "" {
		merged.Name = name
	}

	l.mu.Lock()
	l.cache[name] = merged
	l.mu.Unlock()

	return merged, nil
}

// Load loads, validates and builds the named definition.
func (l *Loader) Load(name string) (*Definition, error) {
	cfg, err := l.LoadMerged(name)
	if err != nil {
		return nil, err
	}
	return Build(cfg)
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file into RawConfig. Missing files return a zero cfg
// and found=false, no error.
func readYAML(path string) (cfg RawConfig, found bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, false, nil
		}
		return RawConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, true, err
	}
	return cfg, true, nil
}

// mergeRaw overlays b on a: scalars and params are replaced when b sets them,
// globals and roots are merged key by key, and groups are merged by name with
// b's definition winning.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.GRFID != nil {
		id := *b.GRFID
		out.GRFID = &id
	}
	if b.Name != "" {
		out.Name = b.Name
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.MaxDepth != 0 {
		out.MaxDepth = b.MaxDepth
	}
	if len(b.Params) > 0 {
		out.Params = append([]uint32(nil), b.Params...)
	}

	if len(a.Globals) > 0 || len(b.Globals) > 0 {
		out.Globals = make(map[uint8]uint32, len(a.Globals)+len(b.Globals))
		for k, v := range a.Globals {
			out.Globals[k] = v
		}
		for k, v := range b.Globals {
			out.Globals[k] = v
		}
	}
	if len(a.Roots) > 0 || len(b.Roots) > 0 {
		out.Roots = make(map[string]string, len(a.Roots)+len(b.Roots))
		for k, v := range a.Roots {
			out.Roots[k] = v
		}
		for k, v := range b.Roots {
			out.Roots[k] = v
		}
	}

	// groups: keep a's order, replace overridden entries in place, append new ones
	if len(b.Groups) > 0 {
		idx := make(map[string]int, len(a.Groups))
		out.Groups = append([]GroupConfig(nil), a.Groups...)
		for i, g := range out.Groups {
			idx[g.Name] = i
		}
		for _, g := range b.Groups {
			if i, ok := idx[g.Name]; ok {
				out.Groups[i] = g
				continue
			}
			idx[g.Name] = len(out.Groups)
			out.Groups = append(out.Groups, g)
		}
	}

	return out
}
