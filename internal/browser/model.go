package browser

import (
	"fmt"

	"github.com/mcncl/jsontree/internal/expansion"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/search"
)

// Model is the view-independent state of one browsing session: the document,
// its expansion state and the current search.
type Model struct {
	root    models.Value
	store   *expansion.Store
	index   *search.Index
	term    string
	results []models.SearchResult
	matched map[models.PathKey]struct{}
	current int
}

// NewModel starts a session over root with only the root expanded
func NewModel(root models.Value) *Model {
	m := &Model{
		root:    root,
		store:   expansion.New(),
		index:   search.NewIndex(root),
		matched: make(map[models.PathKey]struct{}),
		current: -1,
	}
	m.store.Expand(models.RootKey)
	return m
}

// Root returns the document being browsed
func (m *Model) Root() models.Value { return m.root }

// IsExpanded reports whether the node at path is expanded
func (m *Model) IsExpanded(path models.Path) bool {
	return m.store.IsExpanded(path.Key())
}

// Toggle expands or collapses the node at path
func (m *Model) Toggle(path models.Path) {
	m.store.Toggle(path.Key())
}

// Collapse collapses the node at path and reports whether it was expanded
func (m *Model) Collapse(path models.Path) bool {
	key := path.Key()
	if !m.store.IsExpanded(key) {
		return false
	}
	m.store.Collapse(key)
	return true
}

// ExpandAll expands every node with children
func (m *Model) ExpandAll() {
	m.store.ExpandAll(m.root)
}

// CollapseAll collapses everything, root included
func (m *Model) CollapseAll() {
	m.store.CollapseAll()
}

// Search replaces the current results with the matches for term and returns
// how many there are. The cursor is reset so Next starts at the first match.
func (m *Model) Search(term string) int {
	m.term = term
	m.results = m.index.Find(term)
	m.current = -1
	clear(m.matched)
	for _, r := range m.results {
		m.matched[r.Entry.Key()] = struct{}{}
	}
	return len(m.results)
}

// Results returns the matches of the last search
func (m *Model) Results() []models.SearchResult { return m.results }

// IsMatch reports whether the node at path was hit by the last search
func (m *Model) IsMatch(path models.Path) bool {
	_, ok := m.matched[path.Key()]
	return ok
}

// Next moves to the following match, wrapping around, and expands its
// ancestors so it is visible.
func (m *Model) Next() (models.SearchResult, bool) {
	return m.step(1)
}

// Prev moves to the preceding match, wrapping around.
func (m *Model) Prev() (models.SearchResult, bool) {
	return m.step(-1)
}

func (m *Model) step(delta int) (models.SearchResult, bool) {
	n := len(m.results)
	if n == 0 {
		return models.SearchResult{}, false
	}
	if m.current < 0 && delta < 0 {
		m.current = n - 1
	} else {
		m.current = ((m.current+delta)%n + n) % n
	}
	r := m.results[m.current]
	m.store.Reveal(r.Entry)
	return r, true
}

// Status summarises the session for the status bar
func (m *Model) Status() string {
	switch {
	case m.term == "":
		return fmt.Sprintf("%d expanded", m.store.Len())
	case len(m.results) == 0:
		return fmt.Sprintf("no matches for %q", m.term)
	case m.current < 0:
		return fmt.Sprintf("%d matches for %q", len(m.results), m.term)
	}
	r := m.results[m.current]
	return fmt.Sprintf("%d/%d matches for %q  %s (%s)", m.current+1, len(m.results), m.term, r.Entry, r.Match)
}
