// Package history keeps undo snapshots of the full shape list.
package history

import "github.com/ivlev/annotator/internal/shape"

// Manager is a stack of shape lists. Each entry is the list as it was before
// a completed edit, so Undo is a plain pop.
type Manager struct {
	stack [][]shape.Shape
	depth int
}

// New returns a manager keeping at most depth snapshots; depth 0 keeps all of them.
func New(depth int) *Manager {
	if depth < 0 {
		depth = 0
	}
	return &Manager{depth: depth}
}

// Commit records the pre-edit list.
func (m *Manager) Commit(previous []shape.Shape) {
	snap := shape.Clone(previous)
	if snap == nil {
		snap = []shape.Shape{}
	}
	m.stack = append(m.stack, snap)
	if m.depth > 0 && len(m.stack) > m.depth {
		drop := len(m.stack) - m.depth
		copy(m.stack, m.stack[drop:])
		m.stack = m.stack[:m.depth]
	}
}

// Undo pops the most recent snapshot.
func (m *Manager) Undo() ([]shape.Shape, bool) {
	if len(m.stack) == 0 {
		return nil, false
	}
	last := m.stack[len(m.stack)-1]
	m.stack[len(m.stack)-1] = nil
	m.stack = m.stack[:len(m.stack)-1]
	return shape.Clone(last), true
}

func (m *Manager) Len() int { return len(m.stack) }

// Rewrite applies fn to every shape of every snapshot.
func (m *Manager) Rewrite(fn func(shape.Shape) shape.Shape) {
	for _, snap := range m.stack {
		for i := range snap {
			snap[i] = fn(snap[i])
		}
	}
}
