package unifiedui

import (
	"fmt"
	"log"
)

// UnknownElementError reports a declaration name outside the catalog.
type UnknownElementError struct {
	Name string
	ID   string
	Pos  Pos
}

func (e *UnknownElementError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: unknown element %q (id %q)", e.Pos, e.Name, e.ID)
	}
	return fmt.Sprintf("%s: unknown element %q", e.Pos, e.Name)
}

// BuildError wraps a failure building one declaration.
type BuildError struct {
	Name string
	ID   string
	Pos  Pos
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s %q: %v", e.Pos, e.Name, e.ID, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// nonVisual names declarations that only seed initial state.
var nonVisual = map[string]bool{
	"state":         true,
	"initial_state": true,
	"data":          true,
}

// IsNonVisual reports whether a declaration name holds state rather than UI.
func IsNonVisual(name string) bool {
	return nonVisual[name]
}

type constructor func(b *Builder, n *Node) (Element, error)

var catalog map[string]constructor

func init() {
	catalog = map[string]constructor{
		"vbox":         layoutOf(KindVBox),
		"column_box":   layoutOf(KindVBox),
		"hbox":         layoutOf(KindHBox),
		"row":          layoutOf(KindHBox),
		"form":         layoutOf(KindForm),
		"label":        (*Builder).label,
		"text":         (*Builder).label,
		"button":       (*Builder).button,
		"text_input":   (*Builder).textInput,
		"checkbox":     (*Builder).checkbox,
		"progress_bar": (*Builder).progress,
		"table":        (*Builder).table,
		"menu":         (*Builder).menu,
		"context_menu": (*Builder).menu,
		"tabs":         (*Builder).tabs,
		"tree_view":    (*Builder).treeView,
	}
}

// IsKnownElement reports whether name has a constructor or is non-visual.
func IsKnownElement(name string) bool {
	_, ok := catalog[name]
	return ok || nonVisual[name]
}

// Builder converts declaration trees into IUR trees.
type Builder struct {
	Styles *StyleGraph
	Logger *log.Logger
}

// Build converts a declaration tree using styles for style references.
func Build(root *Node, styles *StyleGraph) (Element, error) {
	return (&Builder{Styles: styles}).Build(root)
}

// Build converts the declaration tree rooted at root. The root must be a
// visual element.
func (b *Builder) Build(root *Node) (Element, error) {
	if root == nil {
		return nil, fmt.Errorf("build: nil declaration tree")
	}
	el, err := b.node(root)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("build: root %q is not a visual element", root.Name)
	}
	return el, nil
}

// node returns nil, nil for non-visual declarations.
func (b *Builder) node(n *Node) (Element, error) {
	if nonVisual[n.Name] {
		loggerOr(b.Logger).Printf("build: skipping non-visual %q at %s", n.Name, n.Pos)
		return nil, nil
	}
	ctor, ok := catalog[n.Name]
	if !ok {
		return nil, &UnknownElementError{Name: n.Name, ID: n.ID(), Pos: n.Pos}
	}
	el, err := ctor(b, n)
	if err != nil {
		if _, ok := err.(*BuildError); ok {
			return nil, err
		}
		return nil, &BuildError{Name: n.Name, ID: n.ID(), Pos: n.Pos, Err: err}
	}
	return el, nil
}

func (b *Builder) nodes(ns []*Node) ([]Element, error) {
	var out []Element
	for _, n := range ns {
		el, err := b.node(n)
		if err != nil {
			return nil, err
		}
		if el != nil {
			out = append(out, el)
		}
	}
	return out, nil
}

func (b *Builder) common(n *Node) (Common, error) {
	c := Common{ID: n.ID(), Hidden: !n.AttrBool("visible", true)}
	st, err := b.styleAttr(n, "style")
	if err != nil {
		return c, err
	}
	c.Style = st
	return c, nil
}

// styleAttr resolves the style reference held by key, if declared.
func (b *Builder) styleAttr(n *Node, key string) (*StyleAttrs, error) {
	ref, ok := n.Attr(key)
	if !ok || ref == nil {
		return nil, nil
	}
	st, err := b.Styles.ResolveStyleRef(ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &st, nil
}

func handlerAttr(n *Node, key string) Handler {
	v, ok := n.Attr(key)
	if !ok {
		return nil
	}
	return ParseHandler(v)
}

func layoutOf(k Kind) constructor {
	return func(b *Builder, n *Node) (Element, error) {
		c, err := b.common(n)
		if err != nil {
			return nil, err
		}
		l := &Layout{Common: c, Kind: k, Spacing: n.AttrInt("spacing", 0)}
		if v, ok := n.Attr("padding"); ok {
			if l.Padding, err = edgesValue(v); err != nil {
				return nil, fmt.Errorf("padding: %w", err)
			}
		}
		if s := n.AttrString("align"); s != "" {
			if l.Align, err = ParseAlign(s); err != nil {
				return nil, err
			}
		}
		if l.Items, err = b.nodes(n.Children); err != nil {
			return nil, err
		}
		return l, nil
	}
}

func (b *Builder) label(n *Node) (Element, error) {
	c, err := b.common(n)
	if err != nil {
		return nil, err
	}
	text := n.AttrString("text")
	if text == "" {
		text = n.AttrString("content")
	}
	return &Label{Common: c, Text: text, For: n.AttrString("for")}, nil
}

func (b *Builder) button(n *Node) (Element, error) {
	c, err := b.common(n)
	if err != nil {
		return nil, err
	}
	return &Button{
		Common:   c,
		Label:    n.AttrString("label"),
		Disabled: n.AttrBool("disabled", false),
		OnClick:  handlerAttr(n, "on_click"),
	}, nil
}

func (b *Builder) textInput(n *Node) (Element, error) {
	c, err := b.common(n)
	if err != nil {
		return nil, err
	}
	return &TextInput{
		Common:      c,
		Value:       n.AttrString("value"),
		Placeholder: n.AttrString("placeholder"),
		Password:    n.AttrBool("password", false),
		FormID:      n.AttrString("form_id"),
		OnChange:    handlerAttr(n, "on_change"),
		OnSubmit:    handlerAttr(n, "on_submit"),
	}, nil
}

func (b *Builder) checkbox(n *Node) (Element, error) {
	c, err := b.common(n)
	if err != nil {
		return nil, err
	}
	return &Checkbox{
		Common:   c,
		Label:    n.AttrString("label"),
		Checked:  n.AttrBool("checked", false),
		OnChange: handlerAttr(n, "on_change"),
	}, nil
}

func (b *Builder) progress(n *Node) (Element, error) {
	c, err := b.common(n)
	if err != nil {
		return nil, err
	}
	return &Progress{Common: c, Value: n.AttrInt("value", 0), Max: n.AttrInt("max", 100)}, nil
}

func (b *Builder) table(n *Node) (Element, error) {
	c, err := b.common(n)
	if err != nil {
		return nil, err
	}
	t := &Table{
		Common:      c,
		OnRowSelect: handlerAttr(n, "on_row_select"),
		OnSort:      handlerAttr(n, "on_sort"),
	}
	if t.HeaderStyle, err = b.styleAttr(n, "header_style"); err != nil {
		return nil, err
	}
	for _, col := range append(append([]*Node(nil), n.Columns...), n.Children...) {
		key := col.AttrString("key")
		if key == "" {
			key = col.ID()
		}
		header := col.AttrString("header")
		if header == "" {
			header = key
		}
		t.Columns = append(t.Columns, Column{
			Key:      key,
			Header:   header,
			Width:    col.AttrInt("width", 0),
			Sortable: col.AttrBool("sortable", false),
		})
	}
	if rows, ok := n.Attr("rows"); ok {
		list, ok := rows.([]any)
		if !ok {
			return nil, fmt.Errorf("rows: expected a list, got %T", rows)
		}
		for i, r := range list {
			m, ok := r.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("rows[%d]: expected a map, got %T", i, r)
			}
			t.Rows = append(t.Rows, m)
		}
	}
	return t, nil
}

func (b *Builder) menu(n *Node) (Element, error) {
	c, err := b.common(n)
	if err != nil {
		return nil, err
	}
	return &Menu{
		Common:  c,
		Context: n.Name == "context_menu",
		Items:   menuItems(append(append([]*Node(nil), n.Items...), n.Children...)),
	}, nil
}

func menuItems(ns []*Node) []MenuItem {
	var out []MenuItem
	for _, n := range ns {
		out = append(out, MenuItem{
			ID:       n.ID(),
			Label:    n.AttrString("label"),
			Disabled: n.AttrBool("disabled", false),
			Hidden:   !n.AttrBool("visible", true),
			OnClick:  handlerAttr(n, "on_click"),
			Items:    menuItems(append(append([]*Node(nil), n.Items...), n.Children...)),
		})
	}
	return out
}

func (b *Builder) tabs(n *Node) (Element, error) {
	c, err := b.common(n)
	if err != nil {
		return nil, err
	}
	t := &Tabs{Common: c, Active: n.AttrString("active"), OnChange: handlerAttr(n, "on_change")}
	for _, tn := range append(append([]*Node(nil), n.Tabs...), n.Children...) {
		tab := Tab{ID: tn.ID(), Label: tn.AttrString("label")}
		content, err := b.nodes(tn.Children)
		if err != nil {
			return nil, err
		}
		switch len(content) {
		case 0:
		case 1:
			tab.Content = content[0]
		default:
			tab.Content = &Layout{Common: Common{ID: tab.ID + "_content"}, Kind: KindVBox, Items: content}
		}
		t.Tabs = append(t.Tabs, tab)
	}
	return t, nil
}

func (b *Builder) treeView(n *Node) (Element, error) {
	c, err := b.common(n)
	if err != nil {
		return nil, err
	}
	return &TreeView{
		Common:    c,
		RootNodes: treeNodes(append(append([]*Node(nil), n.Nodes...), n.Children...)),
		OnSelect:  handlerAttr(n, "on_select"),
		OnToggle:  handlerAttr(n, "on_toggle"),
	}, nil
}

func treeNodes(ns []*Node) []TreeNode {
	var out []TreeNode
	for _, n := range ns {
		out = append(out, TreeNode{
			ID:       n.ID(),
			Label:    n.AttrString("label"),
			Expanded: n.AttrBool("expanded", false),
			Children: treeNodes(append(append([]*Node(nil), n.Nodes...), n.Children...)),
		})
	}
	return out
}
