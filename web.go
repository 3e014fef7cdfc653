package unifiedui

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WebAdapter renders IUR trees into HTML node trees.
//
// Options:
//
//	title        string  document title (default "app")
//	class_prefix string  prefix of generated class names (default "uui-")
//	document     bool    wrap the tree in a full html document
type WebAdapter struct {
	Logger *log.Logger
}

// NewWebAdapter creates a web adapter.
func NewWebAdapter() *WebAdapter {
	return &WebAdapter{}
}

// Render builds a new HTML tree for root.
func (w *WebAdapter) Render(ctx context.Context, root Element, opts Options) (*RendererState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("web: nil root")
	}
	st := &RendererState{Platform: Web, Config: opts, Version: 1}
	if err := w.build(st, root, opts); err != nil {
		return nil, err
	}
	loggerOr(w.Logger).Printf("web: rendered %d widgets, version %d", len(st.Widgets), st.Version)
	return st, nil
}

// Update rebuilds the tree for root and bumps the version.
func (w *WebAdapter) Update(ctx context.Context, root Element, st *RendererState, opts Options) (*RendererState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if st == nil || st.Platform != Web {
		return nil, fmt.Errorf("web: update of foreign state")
	}
	next := &RendererState{
		Platform: Web,
		Config:   Options(MergeStates(st.Config, opts)),
		Version:  st.Version + 1,
	}
	if err := w.build(next, root, next.Config); err != nil {
		return nil, err
	}
	return next, nil
}

// Destroy detaches the tree.
func (w *WebAdapter) Destroy(st *RendererState) error {
	if st == nil {
		return nil
	}
	st.Root = nil
	st.Widgets = nil
	return nil
}

// HTML serializes the tree held by a web state.
func HTML(st *RendererState) (string, error) {
	if st == nil {
		return "", fmt.Errorf("web: nil state")
	}
	n, ok := st.Root.(*html.Node)
	if !ok || n == nil {
		return "", fmt.Errorf("web: state holds no tree")
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (w *WebAdapter) build(st *RendererState, root Element, opts Options) error {
	b := &htmlBuild{prefix: opts.String("class_prefix", "uui-"), widgets: make(map[string]any)}
	body := b.element(root)
	if body == nil {
		return fmt.Errorf("web: root is not visible")
	}
	title := opts.String("title", "app")
	top := body
	if opts.Bool("document", false) {
		top = document(title, body)
	}
	st.Root = top
	st.Widgets = b.widgets
	st.Metadata = map[string]any{"title": title, "widgets": len(b.widgets)}
	return nil
}

func elem(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] == "" {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func setAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func document(title string, body *html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	h := elem("html")
	head := elem("head")
	t := elem("title")
	t.AppendChild(text(title))
	head.AppendChild(t)
	b := elem("body")
	b.AppendChild(body)
	h.AppendChild(head)
	h.AppendChild(b)
	doc.AppendChild(h)
	return doc
}

// css converts resolved style attributes to an inline declaration list.
func css(sa *StyleAttrs, extra ...string) string {
	var decls []string
	decls = append(decls, extra...)
	if sa != nil {
		if sa.FG != nil {
			if h := sa.FG.HexString(); h != "" {
				decls = append(decls, "color:"+h)
			}
		}
		if sa.BG != nil {
			if h := sa.BG.HexString(); h != "" {
				decls = append(decls, "background-color:"+h)
			}
		}
		a := sa.Text
		if a.Has(AttrBold) {
			decls = append(decls, "font-weight:bold")
		}
		if a.Has(AttrItalic) {
			decls = append(decls, "font-style:italic")
		}
		if a.Has(AttrDim) {
			decls = append(decls, "opacity:0.6")
		}
		var deco []string
		if a.Has(AttrUnderline) {
			deco = append(deco, "underline")
		}
		if a.Has(AttrStrikethrough) {
			deco = append(deco, "line-through")
		}
		if len(deco) > 0 {
			decls = append(decls, "text-decoration:"+strings.Join(deco, " "))
		}
		if p := sa.Padding; p != nil {
			decls = append(decls, "padding:"+edgesCSS(*p))
		}
		if m := sa.Margin; m != nil {
			decls = append(decls, "margin:"+edgesCSS(*m))
		}
		if sa.Width != nil {
			decls = append(decls, fmt.Sprintf("width:%dch", *sa.Width))
		}
		if sa.Height != nil {
			decls = append(decls, fmt.Sprintf("height:%dem", *sa.Height))
		}
		if sa.Align != nil {
			decls = append(decls, "text-align:"+cssAlign(*sa.Align))
		}
		if sa.Spacing != nil {
			decls = append(decls, fmt.Sprintf("gap:%dch", *sa.Spacing))
		}
	}
	return strings.Join(decls, ";")
}

func edgesCSS(e Edges) string {
	return fmt.Sprintf("%dch %dch %dch %dch", e.Top, e.Right, e.Bottom, e.Left)
}

func cssAlign(a Align) string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "right"
	}
	return "left"
}

type htmlBuild struct {
	prefix  string
	widgets map[string]any
}

func (b *htmlBuild) class(name string) string { return b.prefix + name }

// element returns nil for invisible elements.
func (b *htmlBuild) element(el Element) *html.Node {
	m := el.Meta()
	if !m.Visible {
		return nil
	}
	var n *html.Node
	switch e := el.(type) {
	case *Layout:
		n = b.layout(e)
	case *Label:
		if e.For != "" {
			n = elem("label", "for", e.For)
		} else {
			n = elem("span")
		}
		n.AppendChild(text(e.Text))
	case *Button:
		n = elem("button", "type", "button", "data-action", actionName(e.OnClick))
		if e.Disabled {
			setAttr(n, "disabled", "")
		}
		n.AppendChild(text(e.Label))
	case *TextInput:
		typ := "text"
		if e.Password {
			typ = "password"
		}
		n = elem("input", "type", typ, "name", e.ID, "value", e.Value,
			"placeholder", e.Placeholder, "data-form-id", e.FormID)
	case *Checkbox:
		n = elem("label")
		box := elem("input", "type", "checkbox", "name", e.ID)
		if e.Checked {
			setAttr(box, "checked", "")
		}
		n.AppendChild(box)
		n.AppendChild(text(" " + e.Label))
	case *Progress:
		n = elem("progress", "value", strconv.Itoa(e.Value), "max", strconv.Itoa(e.Max))
	case *Table:
		n = b.table(e)
	case *Menu:
		n = b.menu(e.Items, "menu")
		if e.Context {
			setAttr(n, "data-context", "true")
		}
	case *Tabs:
		n = b.tabs(e)
	case *TreeView:
		n = b.tree(e.RootNodes, "tree")
	default:
		return nil
	}
	setAttr(n, "class", b.class(m.Type.String()))
	if m.ID != "" {
		setAttr(n, "id", m.ID)
		b.widgets[m.ID] = n
	}
	if s := css(m.Style); s != "" {
		setAttr(n, "style", s)
	}
	return n
}

func (b *htmlBuild) layout(l *Layout) *html.Node {
	tag := "div"
	if l.Kind == KindForm {
		tag = "form"
	}
	dir := "column"
	if l.Kind == KindHBox {
		dir = "row"
	}
	decls := []string{"display:flex", "flex-direction:" + dir}
	if l.Spacing > 0 {
		decls = append(decls, fmt.Sprintf("gap:%dch", l.Spacing))
	}
	if l.Padding != (Edges{}) {
		decls = append(decls, "padding:"+edgesCSS(l.Padding))
	}
	n := elem(tag, "data-layout", strings.Join(decls, ";"))
	for _, c := range l.Items {
		if cn := b.element(c); cn != nil {
			n.AppendChild(cn)
		}
	}
	return n
}

func (b *htmlBuild) table(t *Table) *html.Node {
	n := elem("table", "data-row-action", actionName(t.OnRowSelect), "data-sort-action", actionName(t.OnSort))
	thead := elem("thead")
	hr := elem("tr")
	for _, c := range t.Columns {
		th := elem("th", "data-key", c.Key, "style", css(t.HeaderStyle))
		if c.Sortable {
			setAttr(th, "data-sortable", "true")
		}
		th.AppendChild(text(c.Header))
		hr.AppendChild(th)
	}
	thead.AppendChild(hr)
	n.AppendChild(thead)
	tbody := elem("tbody")
	for i, row := range t.Rows {
		tr := elem("tr", "data-row", strconv.Itoa(i))
		for _, c := range t.Columns {
			td := elem("td")
			td.AppendChild(text(cell(row[c.Key])))
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	n.AppendChild(tbody)
	return n
}

func (b *htmlBuild) menu(items []MenuItem, role string) *html.Node {
	ul := elem("ul", "role", role)
	for _, it := range items {
		if it.Hidden {
			continue
		}
		li := elem("li", "role", "menuitem", "id", it.ID, "data-action", actionName(it.OnClick))
		if it.Disabled {
			setAttr(li, "aria-disabled", "true")
		}
		li.AppendChild(text(it.Label))
		if len(it.Items) > 0 {
			li.AppendChild(b.menu(it.Items, "menu"))
		}
		if it.ID != "" {
			b.widgets[it.ID] = li
		}
		ul.AppendChild(li)
	}
	return ul
}

func (b *htmlBuild) tabs(t *Tabs) *html.Node {
	n := elem("div")
	list := elem("div", "role", "tablist")
	active, _ := t.ActiveTab()
	for _, tab := range t.Tabs {
		selected := "false"
		if tab.ID == active.ID {
			selected = "true"
		}
		btn := elem("button", "type", "button", "role", "tab", "aria-selected", selected, "data-tab", tab.ID)
		btn.AppendChild(text(tab.Label))
		list.AppendChild(btn)
	}
	n.AppendChild(list)
	for _, tab := range t.Tabs {
		panel := elem("div", "role", "tabpanel", "data-tab", tab.ID)
		if tab.ID != active.ID {
			setAttr(panel, "hidden", "")
		}
		if tab.Content != nil {
			if c := b.element(tab.Content); c != nil {
				panel.AppendChild(c)
			}
		}
		n.AppendChild(panel)
	}
	return n
}

func (b *htmlBuild) tree(nodes []TreeNode, role string) *html.Node {
	ul := elem("ul", "role", role)
	for _, tn := range nodes {
		li := elem("li", "role", "treeitem", "data-node", tn.ID)
		if len(tn.Children) > 0 {
			setAttr(li, "aria-expanded", strconv.FormatBool(tn.Expanded))
		}
		li.AppendChild(text(tn.Label))
		if len(tn.Children) > 0 {
			group := b.tree(tn.Children, "group")
			if !tn.Expanded {
				setAttr(group, "hidden", "")
			}
			li.AppendChild(group)
		}
		ul.AppendChild(li)
	}
	return ul
}
