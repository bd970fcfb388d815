// Package query selects nodes from a document with RFC 9535 JSONPath
// expressions and maps the matches back onto ordered paths.
package query

import (
	"fmt"
	"sort"

	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/tree"
	"github.com/theory/jsonpath"
	"github.com/theory/jsonpath/spec"
)

// Match is one node selected by a query
type Match struct {
	Path  models.Path
	Value models.Value
}

// Query is a compiled JSONPath expression
type Query struct {
	expr string
	path *jsonpath.Path
}

// Compile parses a JSONPath expression such as "$.data[*].id"
func Compile(expr string) (*Query, error) {
	if expr == "" {
		return nil, errors.NewQueryError("JSONPath expression is empty", errors.ErrInvalidQuery)
	}
	p, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, errors.NewQueryError(fmt.Sprintf("invalid JSONPath %s: %v", expr, err), errors.ErrInvalidQuery)
	}
	return &Query{expr: expr, path: p}, nil
}

// String returns the expression the query was compiled from
func (q *Query) String() string {
	return q.expr
}

// Select evaluates q against root and returns matches in document order.
// The selector works on an unordered copy of the document; each match is
// resolved back against root through its normalized path, so returned values
// keep their member order.
func (q *Query) Select(root models.Value) []Match {
	located := q.path.SelectLocated(root.Interface())
	matches := make([]Match, 0, len(located))
	for _, node := range located {
		path, ok := fromNormalized(node.Path)
		if !ok {
			continue
		}
		v, ok := tree.Lookup(root, path)
		if !ok {
			continue
		}
		matches = append(matches, Match{Path: path, Value: v})
	}
	if len(matches) > 1 {
		sortDocumentOrder(root, matches)
	}
	return matches
}

// sortDocumentOrder orders matches by pre-order position in root. Wildcards
// over objects otherwise come back in map iteration order.
func sortDocumentOrder(root models.Value, matches []Match) {
	position := make(map[models.PathKey]int)
	n := 0
	tree.Walk(root, func(path models.Path, _ models.Value) bool {
		position[path.Key()] = n
		n++
		return true
	})
	sort.SliceStable(matches, func(i, j int) bool {
		return position[matches[i].Path.Key()] < position[matches[j].Path.Key()]
	})
}

// Select compiles expr and evaluates it against root
func Select(root models.Value, expr string) ([]Match, error) {
	q, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return q.Select(root), nil
}

func fromNormalized(np spec.NormalizedPath) (models.Path, bool) {
	path := make(models.Path, 0, len(np))
	for _, sel := range np {
		switch s := sel.(type) {
		case spec.Name:
			path = append(path, models.KeySegment(string(s)))
		case spec.Index:
			path = append(path, models.IndexSegment(int(s)))
		default:
			return nil, false
		}
	}
	return path, true
}
