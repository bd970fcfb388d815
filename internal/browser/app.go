// Package browser is an interactive terminal viewer for JSON documents built
// on tview.
package browser

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/render"
	"github.com/mcncl/jsontree/internal/tree"
	"github.com/rivo/tview"
)

const (
	appTitle   = " jsontree "
	helpText   = "enter/space toggle  h collapse/parent  e expand all  c collapse all  / search  n/N next/prev  q quit"
	rootLabel  = "$"
	matchColor = tcell.ColorYellow
	leafColor  = tcell.ColorWhite
	nodeColor  = tcell.ColorGreen
)

// nodeRef is stored on every tview node so events can be mapped back to paths
type nodeRef struct {
	path models.Path
}

// Application is the running browser
type Application struct {
	model    *Model
	renderer *render.Renderer
	app      *tview.Application

	// UI components
	treeView    *tview.TreeView
	searchInput *tview.InputField
	statusBar   *tview.TextView
	helpBar     *tview.TextView
	layout      *tview.Flex
}

// NewApplication creates a browser over root. With expandAll set every node
// starts expanded, otherwise only the root.
func NewApplication(root models.Value, expandAll bool) *Application {
	a := &Application{
		model:    NewModel(root),
		renderer: render.NewRenderer(0),
		app:      tview.NewApplication(),
	}
	if expandAll {
		a.model.ExpandAll()
	}
	a.setupUI()
	a.rebuild(models.Path{})
	return a
}

// Model exposes the session state
func (a *Application) Model() *Model {
	return a.model
}

// Run starts the event loop and blocks until the user quits
func (a *Application) Run() error {
	return a.app.SetRoot(a.layout, true).SetFocus(a.treeView).Run()
}

// setupUI creates and configures all UI components
func (a *Application) setupUI() {
	a.treeView = tview.NewTreeView()
	a.treeView.SetGraphics(true)
	a.treeView.SetBorder(true)
	a.treeView.SetTitle(appTitle)
	a.treeView.SetSelectedFunc(func(node *tview.TreeNode) {
		a.toggle(node)
	})

	a.searchInput = tview.NewInputField()
	a.searchInput.SetLabel("/")
	a.searchInput.SetFieldWidth(0)
	a.searchInput.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			a.runSearch(a.searchInput.GetText())
		case tcell.KeyEscape:
			a.searchInput.SetText("")
		}
		a.app.SetFocus(a.treeView)
	})

	a.statusBar = tview.NewTextView().SetDynamicColors(false)
	a.helpBar = tview.NewTextView().SetText(helpText).SetTextColor(tcell.ColorGray)

	a.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.treeView, 0, 1, true).
		AddItem(a.searchInput, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false).
		AddItem(a.helpBar, 1, 0, false)

	a.treeView.SetInputCapture(a.handleKey)
}

// handleKey implements the single-letter bindings of the tree view
func (a *Application) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}
	switch event.Rune() {
	case ' ':
		a.toggle(a.treeView.GetCurrentNode())
	case 'h':
		a.collapseOrParent()
	case 'e':
		a.model.ExpandAll()
		a.rebuild(a.currentPath())
	case 'c':
		a.model.CollapseAll()
		a.rebuild(models.Path{})
	case '/':
		a.app.SetFocus(a.searchInput)
	case 'n':
		a.jump(a.model.Next)
	case 'N':
		a.jump(a.model.Prev)
	case 'q':
		a.app.Stop()
	default:
		return event
	}
	return nil
}

func (a *Application) toggle(node *tview.TreeNode) {
	if node == nil {
		return
	}
	ref, ok := node.GetReference().(nodeRef)
	if !ok {
		return
	}
	a.model.Toggle(ref.path)
	a.rebuild(ref.path)
}

// collapseOrParent closes the selected node, or moves to its parent when it
// is already closed
func (a *Application) collapseOrParent() {
	path := a.currentPath()
	if a.model.Collapse(path) {
		a.rebuild(path)
		return
	}
	a.rebuild(path.Parent())
}

func (a *Application) runSearch(term string) {
	a.model.Search(term)
	a.renderer.Highlight(a.model.Results())
	if r, ok := a.model.Next(); ok {
		a.rebuild(r.Entry)
		return
	}
	a.rebuild(a.currentPath())
}

func (a *Application) jump(step func() (models.SearchResult, bool)) {
	r, ok := step()
	if !ok {
		return
	}
	a.rebuild(r.Entry)
}

func (a *Application) currentPath() models.Path {
	if node := a.treeView.GetCurrentNode(); node != nil {
		if ref, ok := node.GetReference().(nodeRef); ok {
			return ref.path
		}
	}
	return models.Path{}
}

// rebuild regenerates the visible tview tree from the model and selects the
// node at focus, or the root if focus is no longer visible.
func (a *Application) rebuild(focus models.Path) {
	focusKey := focus.Key()
	var selected *tview.TreeNode

	var build func(path models.Path, label string, v models.Value) *tview.TreeNode
	build = func(path models.Path, label string, v models.Value) *tview.TreeNode {
		expanded := a.model.IsExpanded(path)
		node := tview.NewTreeNode(tview.Escape(a.renderer.Line(path, label, v, expanded))).
			SetReference(nodeRef{path: path}).
			SetSelectable(true).
			SetColor(a.colorFor(path, v))
		if path.Key() == focusKey {
			selected = node
		}
		if expanded {
			for _, child := range tree.Children(v) {
				node.AddChild(build(path.Append(child.Segment), child.Segment.Key, child.Value))
			}
		}
		return node
	}

	root := build(models.Path{}, rootLabel, a.model.Root())
	if selected == nil {
		selected = root
	}
	a.treeView.SetRoot(root).SetCurrentNode(selected)
	a.statusBar.SetText(a.model.Status())
}

func (a *Application) colorFor(path models.Path, v models.Value) tcell.Color {
	switch {
	case a.model.IsMatch(path):
		return matchColor
	case tree.HasChildren(v):
		return nodeColor
	default:
		return leafColor
	}
}
