// Package render prints a JSON tree as indented text, descending only into
// nodes the expansion store marks as expanded.
package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/mcncl/jsontree/internal/expansion"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/tree"
)

// Markers drawn before each node
const (
	MarkerExpanded  = "▾"
	MarkerCollapsed = "▸"
	MarkerLeaf      = " "
	MatchSuffix     = " *"
	rootLabel       = "$"
)

// Renderer writes the visible part of a tree
type Renderer struct {
	indent     string
	highlights map[models.PathKey]struct{}
}

// NewRenderer creates a Renderer indenting each level by indent spaces
func NewRenderer(indent int) *Renderer {
	if indent < 0 {
		indent = 0
	}
	return &Renderer{
		indent:     strings.Repeat(" ", indent),
		highlights: make(map[models.PathKey]struct{}),
	}
}

// Highlight marks the nodes hit by results. It replaces earlier highlights.
func (r *Renderer) Highlight(results []models.SearchResult) {
	clear(r.highlights)
	for _, res := range results {
		r.highlights[res.Entry.Key()] = struct{}{}
	}
}

// Render writes one line per visible node of root
func (r *Renderer) Render(w io.Writer, root models.Value, store *expansion.Store) error {
	bw := bufio.NewWriter(w)
	r.node(bw, models.Path{}, rootLabel, root, store)
	return bw.Flush()
}

// RenderString is Render into a string
func (r *Renderer) RenderString(root models.Value, store *expansion.Store) string {
	var sb strings.Builder
	_ = r.Render(&sb, root, store)
	return sb.String()
}

// Line formats a single node the way Render does, without indentation
func (r *Renderer) Line(path models.Path, label string, v models.Value, expanded bool) string {
	marker := MarkerLeaf
	if tree.HasChildren(v) {
		marker = MarkerCollapsed
		if expanded {
			marker = MarkerExpanded
		}
	}
	line := marker + " " + label + ": " + tree.Describe(v).String()
	if _, ok := r.highlights[path.Key()]; ok {
		line += MatchSuffix
	}
	return line
}

func (r *Renderer) node(w *bufio.Writer, path models.Path, label string, v models.Value, store *expansion.Store) {
	key := path.Key()
	expanded := store.IsExpanded(key)

	w.WriteString(strings.Repeat(r.indent, len(path)))
	w.WriteString(r.Line(path, label, v, expanded))
	w.WriteByte('\n')

	if !expanded {
		return
	}
	for _, child := range tree.Children(v) {
		r.node(w, path.Append(child.Segment), child.Segment.Key, child.Value, store)
	}
}
