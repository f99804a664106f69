package grfconf

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store hands out built definitions and rebuilds them when their files
// change. Definitions are never mutated after they are handed out; a reload
// swaps in new ones.
type Store struct {
	loader *Loader
	logger *zap.Logger

	mu      sync.RWMutex
	defs    map[string]*Definition
	watcher *FileWatcher
}

// NewStore creates a store reading through loader. A nil logger disables
// logging.
func NewStore(loader *Loader, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{loader: loader, logger: logger, defs: make(map[string]*Definition)}
}

// Definition returns the named definition, loading it on first use.
func (s *Store) Definition(name string) (*Definition, error) {
	s.mu.RLock()
	def, ok := s.defs[name]
	s.mu.RUnlock()
	if ok {
		return def, nil
	}

	def, err := s.loader.Load(name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.defs[name]; ok {
		return cur, nil
	}
	s.defs[name] = def
	if s.watcher != nil {
		s.watcher.Add(s.loader.Paths().GRFPath(name))
	}
	s.logger.Info("definition loaded", zap.String("grf", name), zap.Int("groups", def.Groups.Len()))
	return def, nil
}

// Names lists the loaded definitions.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.defs))
	for n := range s.defs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Reload rebuilds every loaded definition. A definition that fails to build
// keeps its previous version.
func (s *Store) Reload() {
	s.loader.Invalidate()
	for _, name := range s.Names() {
		def, err := s.loader.Load(name)
		if err != nil {
			s.logger.Warn("reload failed, keeping previous definition", zap.String("grf", name), zap.Error(err))
			continue
		}
		s.mu.Lock()
		s.defs[name] = def
		s.mu.Unlock()
		s.logger.Info("definition reloaded", zap.String("grf", name), zap.Int("groups", def.Groups.Len()))
	}
}

// Watch reloads the store whenever the default file or the file of a loaded
// definition changes, until ctx is done. names are loaded up front; anything
// loaded later through Definition is watched from then on.
func (s *Store) Watch(ctx context.Context, names []string, interval time.Duration) (*FileWatcher, error) {
	for _, n := range names {
		if _, err := s.Definition(n); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	paths := []string{s.loader.Paths().DefaultPath()}
	for n := range s.defs {
		paths = append(paths, s.loader.Paths().GRFPath(n))
	}
	w := NewFileWatcher(paths, interval, s.logger, func(string) { s.Reload() })
	s.watcher = w
	s.mu.Unlock()

	w.Start(ctx)
	return w, nil
}
