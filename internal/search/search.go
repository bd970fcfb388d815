// Package search finds keys and primitive values containing a term.
//
// Matching is a case-insensitive substring test. The tree is walked
// depth-first in pre-order. For every entry of an object or array, a key
// match is reported before a value match, and composite children are
// searched after both. Both kinds of result carry the path of the container
// holding the entry. Array indices take part as keys in their decimal form.
package search

import (
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/tree"
)

// Search returns every match for term under root, in traversal order. A term
// that is empty or only whitespace matches nothing and no traversal happens.
func Search(root models.Value, term string) []models.SearchResult {
	if strings.TrimSpace(term) == "" {
		return []models.SearchResult{}
	}
	s := &scanner{term: strings.ToLower(term), results: []models.SearchResult{}}
	s.scan(models.Path{}, root)
	return s.results
}

type scanner struct {
	term    string
	results []models.SearchResult
}

func (s *scanner) scan(path models.Path, node models.Value) {
	for _, child := range tree.Children(node) {
		key := child.Segment.Key
		childPath := path.Append(child.Segment)

		if strings.Contains(strings.ToLower(key), s.term) {
			s.results = append(s.results, result(path, childPath, key, child.Value, models.MatchKey))
		}
		if text, ok := MatchText(child.Value); ok && strings.Contains(strings.ToLower(text), s.term) {
			s.results = append(s.results, result(path, childPath, key, child.Value, models.MatchValue))
		}
		if tree.IsComposite(child.Value) {
			s.scan(childPath, child.Value)
		}
	}
}

func result(path, entry models.Path, key string, v models.Value, kind models.MatchKind) models.SearchResult {
	return models.SearchResult{
		Path:  path,
		Entry: entry,
		Key:   key,
		Value: v,
		Type:  tree.Classify(v),
		Match: kind,
	}
}

// MatchText returns the text a primitive value is matched against: strings
// without quotes, numbers in their shortest literal form, booleans as
// true/false. Null, composites and non-finite numbers have none.
func MatchText(v models.Value) (string, bool) {
	switch v.Kind() {
	case models.KindString:
		return v.Text(), true
	case models.KindNumber:
		n := v.NumberValue()
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return "", false
		}
		return models.FormatNumber(n), true
	case models.KindBool:
		return strconv.FormatBool(v.BoolValue()), true
	default:
		return "", false
	}
}
