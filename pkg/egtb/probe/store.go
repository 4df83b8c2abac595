package probe

import (
	"sync"

	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/felicity-egtb/felicity/pkg/egtb/tbfile"
)

// Store is the in-memory registry of loaded tablebase files a Prober
// consults, keyed by material signature hash. Mirrors
// generator.SubTableSet's shape (a build-time registry of finished
// in-memory tables), adapted to runtime probing of on-disk files with
// their own tiny/all/smart load modes.
type Store struct {
	mu    sync.RWMutex
	files map[uint32]*tbfile.File
	mode  tbfile.LoadMode
}

// NewStore returns an empty file registry whose Cell lookups use mode.
func NewStore(mode tbfile.LoadMode) *Store {
	return &Store{files: make(map[uint32]*tbfile.File), mode: mode}
}

// Register makes f available for probes against sig. A later Register for
// the same signature replaces the previous file.
func (s *Store) Register(sig material.Signature, f *tbfile.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[sig.Hash()] = f
}

func (s *Store) lookup(sig material.Signature) (*tbfile.File, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[sig.Hash()]
	return f, ok
}

// CloseAll drops every registered file. Per §5's shared-resource note that
// closeAll must observe no probe in flight: callers are responsible for
// quiescing their own in-flight Probe/BestLine calls first, since a Side's
// own mutex only protects one file's block cache, not this registry.
func (s *Store) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[uint32]*tbfile.File)
}
