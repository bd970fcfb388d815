// Package expansion tracks which nodes of a tree view are expanded.
//
// A Store belongs to a single viewing session. It has no locking; callers that
// share one across goroutines must serialise access themselves.
package expansion

import (
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/tree"
)

// Store is a set of expanded path keys. The zero Store is empty and ready
// to use.
type Store struct {
	expanded map[models.PathKey]struct{}
}

func (s *Store) add(key models.PathKey) {
	if s.expanded == nil {
		s.expanded = make(map[models.PathKey]struct{})
	}
	s.expanded[key] = struct{}{}
}

// New returns an empty store: every node collapsed
func New() *Store {
	return &Store{expanded: make(map[models.PathKey]struct{})}
}

// Toggle flips the state of key. Keys that match no node are accepted and
// simply have no effect until such a node exists.
func (s *Store) Toggle(key models.PathKey) {
	if _, ok := s.expanded[key]; ok {
		delete(s.expanded, key)
		return
	}
	s.add(key)
}

// IsExpanded reports whether key is currently expanded
func (s *Store) IsExpanded(key models.PathKey) bool {
	_, ok := s.expanded[key]
	return ok
}

// Expand marks key as expanded regardless of its current state
func (s *Store) Expand(key models.PathKey) {
	s.add(key)
}

// Collapse marks key as collapsed regardless of its current state
func (s *Store) Collapse(key models.PathKey) {
	delete(s.expanded, key)
}

// ExpandAll walks root once and expands every node that has children.
// Existing entries, including ones with no matching node, are kept.
func (s *Store) ExpandAll(root models.Value) {
	tree.Walk(root, func(path models.Path, v models.Value) bool {
		if !tree.HasChildren(v) {
			return false
		}
		s.add(path.Key())
		return true
	})
}

// CollapseAll clears the store
func (s *Store) CollapseAll() {
	clear(s.expanded)
}

// Reveal expands every proper ancestor of path, root included, so the node
// at path becomes visible. The node itself is left as it is.
func (s *Store) Reveal(path models.Path) {
	for i := 0; i < len(path); i++ {
		s.add(path[:i].Key())
	}
}

// Len returns the number of expanded keys
func (s *Store) Len() int {
	return len(s.expanded)
}
