// Package tree exposes a read-only, ordered view over a parsed JSON value:
// per-node classification, summaries, children, walking and path lookup.
package tree

import (
	"fmt"

	"github.com/mcncl/jsontree/internal/models"
)

// Classify returns the structural type of v. Null is never reported as an
// empty object.
func Classify(v models.Value) models.TypeTag {
	switch v.Kind() {
	case models.KindNull:
		return models.TypeNull
	case models.KindBool:
		return models.TypeBoolean
	case models.KindNumber:
		return models.TypeNumber
	case models.KindString:
		return models.TypeString
	case models.KindArray:
		return models.TypeArray
	case models.KindObject:
		return models.TypeObject
	}
	// unreachable: Kind is a closed set
	return models.TypeNull
}

// HasChildren is true only for arrays and objects with at least one entry
func HasChildren(v models.Value) bool {
	switch v.Kind() {
	case models.KindArray, models.KindObject:
		return v.Len() > 0
	default:
		return false
	}
}

// IsComposite reports whether v is an array or an object, empty or not
func IsComposite(v models.Value) bool {
	return v.Kind() == models.KindArray || v.Kind() == models.KindObject
}

// Summary is the one-line description of a node shown next to its key.
type Summary struct {
	Type    models.TypeTag
	Count   int    // items or keys; composites only
	Empty   bool   // composites only
	Literal string // primitives only
}

// String renders the summary: "[3 items]", "{1 key}", or the literal.
func (s Summary) String() string {
	switch s.Type {
	case models.TypeArray:
		return fmt.Sprintf("[%d %s]", s.Count, plural(s.Count, "item", "items"))
	case models.TypeObject:
		return fmt.Sprintf("{%d %s}", s.Count, plural(s.Count, "key", "keys"))
	default:
		return s.Literal
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Describe summarises v. Strings are quoted so they cannot be confused with
// the bare literals true, false, null or a number.
func Describe(v models.Value) Summary {
	s := Summary{Type: Classify(v)}
	switch v.Kind() {
	case models.KindArray, models.KindObject:
		s.Count = v.Len()
		s.Empty = s.Count == 0
	default:
		s.Literal = v.Literal()
	}
	return s
}

// Child is one entry of a composite node.
type Child struct {
	Segment models.Segment
	Value   models.Value
}

// Children returns the entries of v: object members in insertion order or
// array elements by ascending index. Primitives have none.
func Children(v models.Value) []Child {
	switch v.Kind() {
	case models.KindObject:
		members := v.Members()
		out := make([]Child, len(members))
		for i, m := range members {
			out[i] = Child{Segment: models.KeySegment(m.Key), Value: m.Value}
		}
		return out
	case models.KindArray:
		items := v.Items()
		out := make([]Child, len(items))
		for i, item := range items {
			out[i] = Child{Segment: models.IndexSegment(i), Value: item}
		}
		return out
	default:
		return nil
	}
}

// WalkFunc is called for every node visited by Walk. Returning false skips
// the node's descendants.
type WalkFunc func(path models.Path, v models.Value) bool

// Walk visits root and its descendants depth-first in pre-order, following
// the ordering of Children.
func Walk(root models.Value, fn WalkFunc) {
	walk(models.Path{}, root, fn)
}

func walk(path models.Path, v models.Value, fn WalkFunc) {
	if !fn(path, v) {
		return
	}
	for _, child := range Children(v) {
		walk(path.Append(child.Segment), child.Value, fn)
	}
}

// Lookup resolves path against root one segment at a time. Index segments
// only step into arrays and key segments only into objects.
func Lookup(root models.Value, path models.Path) (models.Value, bool) {
	current := root
	for _, seg := range path {
		var ok bool
		if seg.IsIndex() {
			current, ok = current.Index(seg.Index)
		} else {
			current, ok = current.Get(seg.Key)
		}
		if !ok {
			return models.Value{}, false
		}
	}
	return current, true
}

// Count returns the total number of nodes under root, root included
func Count(root models.Value) int {
	n := 0
	Walk(root, func(models.Path, models.Value) bool {
		n++
		return true
	})
	return n
}
