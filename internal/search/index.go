package search

import (
	"strings"

	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/tree"
)

// Index is a flattened, pre-lowered copy of every entry under a root. Find
// returns exactly what Search would for the same root, without re-walking
// the tree; it suits repeated searches over one immutable snapshot.
type Index struct {
	entries []entry
}

type entry struct {
	parent   models.Path
	path     models.Path
	key      string
	lowerKey string
	value    models.Value
	typ      models.TypeTag
	text     string // lowered match text; valid when hasText
	hasText  bool
}

// NewIndex flattens root in search traversal order
func NewIndex(root models.Value) *Index {
	idx := &Index{}
	idx.add(models.Path{}, root)
	return idx
}

func (idx *Index) add(path models.Path, node models.Value) {
	for _, child := range tree.Children(node) {
		e := entry{
			parent:   path,
			path:     path.Append(child.Segment),
			key:      child.Segment.Key,
			lowerKey: strings.ToLower(child.Segment.Key),
			value:    child.Value,
			typ:      tree.Classify(child.Value),
		}
		if text, ok := MatchText(child.Value); ok {
			e.text = strings.ToLower(text)
			e.hasText = true
		}
		idx.entries = append(idx.entries, e)
		if tree.IsComposite(child.Value) {
			idx.add(e.path, child.Value)
		}
	}
}

// Len returns the number of indexed entries
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Find filters the index for term with the same rules and ordering as Search.
func (idx *Index) Find(term string) []models.SearchResult {
	results := []models.SearchResult{}
	if strings.TrimSpace(term) == "" {
		return results
	}
	term = strings.ToLower(term)
	for _, e := range idx.entries {
		if strings.Contains(e.lowerKey, term) {
			results = append(results, e.result(models.MatchKey))
		}
		if e.hasText && strings.Contains(e.text, term) {
			results = append(results, e.result(models.MatchValue))
		}
	}
	return results
}

func (e entry) result(kind models.MatchKind) models.SearchResult {
	return models.SearchResult{
		Path:  e.parent,
		Key:   e.key,
		Value: e.value,
		Type:  e.typ,
		Match: kind,
		Entry: e.path,
	}
}
