package permission

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrHierarchyFrozen is returned when registering after Freeze.
	ErrHierarchyFrozen = errors.New("role hierarchy frozen")
	// ErrInvalidRole is returned for empty names, non-positive levels, or duplicates.
	ErrInvalidRole = errors.New("invalid role definition")
)

// Hierarchy maps role names to levels for deployments that need roles beyond
// the built-in four. Names are case-insensitive.
type Hierarchy struct {
	mu     sync.RWMutex
	levels map[string]int
	frozen bool
}

// NewHierarchy returns an empty, unfrozen hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		levels: make(map[string]int),
	}
}

// DefaultHierarchy returns a frozen hierarchy holding viewer, editor, manager
// and admin at levels 1 to 4.
func DefaultHierarchy() *Hierarchy {
	h := NewHierarchy()
	for _, r := range Roles() {
		_ = h.Register(r.String(), r.Level())
	}
	h.Freeze()
	return h
}

// HierarchyFromLevels builds and freezes a hierarchy from a name-to-level map.
func HierarchyFromLevels(levels map[string]int) (*Hierarchy, error) {
	h := NewHierarchy()
	for name, level := range levels {
		if err := h.Register(name, level); err != nil {
			return nil, err
		}
	}
	h.Freeze()
	return h, nil
}

// Register adds a role. Level must be > 0; two roles may share a level.
func (h *Hierarchy) Register(name string, level int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.frozen {
		return ErrHierarchyFrozen
	}

	key := normalizeName(name)
	if key == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidRole)
	}
	if level <= 0 {
		return fmt.Errorf("%w: %s level must be > 0", ErrInvalidRole, key)
	}
	if _, exists := h.levels[key]; exists {
		return fmt.Errorf("%w: %s already registered", ErrInvalidRole, key)
	}

	h.levels[key] = level
	return nil
}

// Freeze prevents further registrations.
func (h *Hierarchy) Freeze() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frozen = true
}

// Level returns the level of name. Absent names return 0 and false.
func (h *Hierarchy) Level(name string) (int, bool) {
	if h == nil {
		return 0, false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	level, ok := h.levels[normalizeName(name)]
	return level, ok
}

// Allows reports whether actual is at least as privileged as required. An
// absent name on either side denies.
func (h *Hierarchy) Allows(actual, required string) bool {
	a, ok := h.Level(actual)
	if !ok {
		return false
	}
	r, ok := h.Level(required)
	if !ok {
		return false
	}
	return a >= r
}

// Names returns registered names ordered by level, then name.
func (h *Hierarchy) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.levels))
	for name := range h.levels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := h.levels[names[i]], h.levels[names[j]]
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
	return names
}

// Count returns the number of registered roles.
func (h *Hierarchy) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.levels)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
