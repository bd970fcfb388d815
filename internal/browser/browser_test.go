package browser

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `{
  "id": "abc",
  "data": {"New text": "testing", "nested": {"deep": "test me"}},
  "list": ["x", "tested"]
}`

func mustParse(t *testing.T) models.Value {
	t.Helper()
	v, err := parser.ParseString(document)
	require.NoError(t, err)
	return v
}

func TestModel_StartsWithRootExpanded(t *testing.T) {
	m := NewModel(mustParse(t))

	assert.True(t, m.IsExpanded(models.Path{}))
	assert.False(t, m.IsExpanded(models.Path{models.KeySegment("data")}))
	assert.Equal(t, "1 expanded", m.Status())
}

func TestModel_ToggleAndBulkOperations(t *testing.T) {
	m := NewModel(mustParse(t))
	data := models.Path{models.KeySegment("data")}

	m.Toggle(data)
	assert.True(t, m.IsExpanded(data))
	m.Toggle(data)
	assert.False(t, m.IsExpanded(data))

	m.ExpandAll()
	assert.True(t, m.IsExpanded(data.Append(models.KeySegment("nested"))))

	m.CollapseAll()
	assert.False(t, m.IsExpanded(models.Path{}))
}

func TestModel_Collapse(t *testing.T) {
	m := NewModel(mustParse(t))
	data := models.Path{models.KeySegment("data")}

	assert.False(t, m.Collapse(data), "already collapsed")

	m.Toggle(data)
	assert.True(t, m.Collapse(data))
	assert.False(t, m.IsExpanded(data))
	assert.True(t, m.IsExpanded(models.Path{}))
}

func TestModel_SearchAndNavigate(t *testing.T) {
	m := NewModel(mustParse(t))

	n := m.Search("test")
	require.Equal(t, 3, n)
	assert.Equal(t, `3 matches for "test"`, m.Status())

	r, ok := m.Next()
	require.True(t, ok)
	assert.Equal(t, "$['data']['New text']", r.Entry.String())
	assert.True(t, m.IsMatch(r.Entry))
	assert.True(t, m.IsExpanded(models.Path{models.KeySegment("data")}), "ancestors are revealed")
	assert.Contains(t, m.Status(), "1/3")

	r, _ = m.Next()
	assert.Equal(t, "$['data']['nested']['deep']", r.Entry.String())
	assert.True(t, m.IsExpanded(models.Path{models.KeySegment("data"), models.KeySegment("nested")}))

	r, _ = m.Next()
	assert.Equal(t, "$['list'][1]", r.Entry.String())

	r, _ = m.Next()
	assert.Equal(t, "$['data']['New text']", r.Entry.String(), "wraps around")

	r, _ = m.Prev()
	assert.Equal(t, "$['list'][1]", r.Entry.String())
}

func TestModel_PrevFromFreshSearchStartsAtLast(t *testing.T) {
	m := NewModel(mustParse(t))
	m.Search("test")

	r, ok := m.Prev()
	require.True(t, ok)
	assert.Equal(t, "$['list'][1]", r.Entry.String())
}

func TestModel_NoMatches(t *testing.T) {
	m := NewModel(mustParse(t))

	assert.Equal(t, 0, m.Search("nothing here"))
	_, ok := m.Next()
	assert.False(t, ok)
	assert.Equal(t, `no matches for "nothing here"`, m.Status())

	assert.Equal(t, 0, m.Search("   "))
	assert.Empty(t, m.Results())
}

func labels(node *tview.TreeNode) []string {
	var out []string
	var walk func(n *tview.TreeNode, depth int)
	walk = func(n *tview.TreeNode, depth int) {
		out = append(out, strings.Repeat(".", depth)+n.GetText())
		for _, child := range n.GetChildren() {
			walk(child, depth+1)
		}
	}
	walk(node, 0)
	return out
}

func TestApplication_BuildsVisibleNodes(t *testing.T) {
	a := NewApplication(mustParse(t), false)

	assert.Equal(t, []string{
		"▾ $: {3 keys}",
		".  id: \"abc\"",
		".▸ data: {2 keys}",
		"." + tview.Escape("▸ list: [2 items]"),
	}, labels(a.treeView.GetRoot()))
}

func TestApplication_ExpandAllOnStart(t *testing.T) {
	a := NewApplication(mustParse(t), true)

	got := labels(a.treeView.GetRoot())
	assert.Contains(t, got, "...  deep: \"test me\"")
	assert.Contains(t, got, "..  1: \"tested\"")
}

func TestApplication_ToggleThroughSelection(t *testing.T) {
	a := NewApplication(mustParse(t), false)

	data := a.treeView.GetRoot().GetChildren()[1]
	a.toggle(data)

	got := labels(a.treeView.GetRoot())
	assert.Contains(t, got, ".▾ data: {2 keys}")
	assert.Contains(t, got, "..  New text: \"testing\"")

	current := a.treeView.GetCurrentNode()
	require.NotNil(t, current)
	assert.Equal(t, "▾ data: {2 keys}", current.GetText())
}

func TestApplication_KeyBindings(t *testing.T) {
	a := NewApplication(mustParse(t), false)

	assert.Nil(t, a.handleKey(tcell.NewEventKey(tcell.KeyRune, 'e', tcell.ModNone)))
	assert.Contains(t, labels(a.treeView.GetRoot()), "...  deep: \"test me\"")

	assert.Nil(t, a.handleKey(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone)))
	assert.Equal(t, []string{"▸ $: {3 keys}"}, labels(a.treeView.GetRoot()))

	passthrough := tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)
	assert.Equal(t, passthrough, a.handleKey(passthrough))

	arrow := tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
	assert.Equal(t, arrow, a.handleKey(arrow))
}

func TestApplication_CollapseThenParent(t *testing.T) {
	a := NewApplication(mustParse(t), false)
	h := tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone)

	a.toggle(a.treeView.GetRoot().GetChildren()[1])
	require.Equal(t, "▾ data: {2 keys}", a.treeView.GetCurrentNode().GetText())

	// first press closes the selected node and keeps it selected
	assert.Nil(t, a.handleKey(h))
	assert.Equal(t, "▸ data: {2 keys}", a.treeView.GetCurrentNode().GetText())
	assert.NotContains(t, labels(a.treeView.GetRoot()), "..  New text: \"testing\"")

	// second press moves up to the root
	assert.Nil(t, a.handleKey(h))
	assert.Equal(t, "▾ $: {3 keys}", a.treeView.GetCurrentNode().GetText())
	assert.True(t, a.model.IsExpanded(models.Path{}))
}

func TestApplication_SearchRevealsFirstMatch(t *testing.T) {
	a := NewApplication(mustParse(t), false)

	a.runSearch("deep")

	current := a.treeView.GetCurrentNode()
	require.NotNil(t, current)
	assert.Equal(t, "  deep: \"test me\" *", current.GetText(), "key match selects the entry itself")
	assert.Contains(t, a.statusBar.GetText(false), "1/1")
	assert.True(t, a.model.IsExpanded(models.Path{models.KeySegment("data"), models.KeySegment("nested")}))
}
