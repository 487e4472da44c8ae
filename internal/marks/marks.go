// Package marks holds a session's favorite and saved listing IDs.
package marks

import (
	"slices"
	"sync"
)

// Kind selects one of the two mark sets.
type Kind string

const (
	Favorite Kind = "favorite"
	Saved    Kind = "saved"
)

// Marks is owned by one session. The zero value is ready to use.
type Marks struct {
	mu    sync.Mutex
	favs  map[string]struct{}
	saved map[string]struct{}
}

// New returns empty marks.
func New() *Marks { return &Marks{} }

// Toggle flips id's membership in the kind set and reports whether id is a
// member afterwards. Toggling twice restores the original membership.
func (m *Marks) Toggle(kind Kind, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.setLocked(kind)
	if _, ok := set[id]; ok {
		delete(set, id)
		return false
	}
	set[id] = struct{}{}
	return true
}

// Has reports whether id is in the kind set.
func (m *Marks) Has(kind Kind, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.setLocked(kind)[id]
	return ok
}

// List returns the kind set in sorted order.
func (m *Marks) List(kind Kind) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.setLocked(kind)
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (m *Marks) ToggleFavorite(id string) bool { return m.Toggle(Favorite, id) }
func (m *Marks) ToggleSaved(id string) bool    { return m.Toggle(Saved, id) }
func (m *Marks) IsFavorite(id string) bool     { return m.Has(Favorite, id) }
func (m *Marks) IsSaved(id string) bool        { return m.Has(Saved, id) }

func (m *Marks) setLocked(kind Kind) map[string]struct{} {
	if kind == Saved {
		if m.saved == nil {
			m.saved = make(map[string]struct{})
		}
		return m.saved
	}
	if m.favs == nil {
		m.favs = make(map[string]struct{})
	}
	return m.favs
}

// ParseKind maps s onto a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case Favorite, Saved:
		return Kind(s), true
	default:
		return "", false
	}
}
