package generator

import (
	"fmt"
	"sync"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/felicity-egtb/felicity/pkg/egtb/score"
)

// SubTableProbe answers a probe against a material signature strictly
// smaller than the one currently being built: every capture, and every
// chess promotion, transitions to such a sub-table (§4.E). The generator
// treats a missing sub-table as fatal, since builds must proceed in
// topological order of material size.
type SubTableProbe interface {
	Probe(sig material.Signature, idx int64, side capability.Side) (score.Score, bool)
}

// SubTableSet is a SubTableProbe backed by already-built in-memory tables,
// keyed by material signature hash. A generator run over a whole
// tablebase family shares one SubTableSet across every material's build,
// populating it as each smaller material finishes.
type SubTableSet struct {
	mu     sync.RWMutex
	tables map[uint32]CellTable
}

// CellTable is the minimal read surface a finished table exposes to
// sub-table probing: per-side-to-move cell arrays addressed by codec index.
type CellTable struct {
	Sig  material.Signature
	A, B []score.Score
}

func (t CellTable) cellsFor(side capability.Side) []score.Score {
	if side == capability.SideB {
		return t.B
	}
	return t.A
}

func NewSubTableSet() *SubTableSet {
	return &SubTableSet{tables: make(map[uint32]CellTable)}
}

// Register makes a finished material's cells available for sub-table
// probing by materials built afterward.
func (s *SubTableSet) Register(t CellTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.Sig.Hash()] = t
}

func (s *SubTableSet) Probe(sig material.Signature, idx int64, side capability.Side) (score.Score, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[sig.Hash()]
	if !ok {
		return score.Missing, false
	}
	cells := t.cellsFor(side)
	if idx < 0 || int(idx) >= len(cells) {
		return score.Missing, false
	}
	return cells[idx], true
}

// RequireRegistered returns an error naming the missing material, so a
// caller building out of topological order fails fast instead of silently
// treating every capture as MISSING.
func (s *SubTableSet) RequireRegistered(sig material.Signature) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.tables[sig.Hash()]; !ok {
		return fmt.Errorf("generator: sub-table %q not built yet (builds must proceed in topological order of material size)", sig.Name())
	}
	return nil
}
