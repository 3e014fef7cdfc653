package unifiedui

// Kind identifies the type of an IUR element. The set is closed and decided
// once while building; downstream code switches on concrete element types.
type Kind uint8

const (
	KindVBox Kind = iota + 1
	KindHBox
	KindForm
	KindLabel
	KindButton
	KindTextInput
	KindCheckbox
	KindProgress
	KindTable
	KindMenu
	KindContextMenu
	KindTabs
	KindTreeView
)

var kindNames = map[Kind]string{
	KindVBox:        "vbox",
	KindHBox:        "hbox",
	KindForm:        "form",
	KindLabel:       "label",
	KindButton:      "button",
	KindTextInput:   "text_input",
	KindCheckbox:    "checkbox",
	KindProgress:    "progress_bar",
	KindTable:       "table",
	KindMenu:        "menu",
	KindContextMenu: "context_menu",
	KindTabs:        "tabs",
	KindTreeView:    "tree_view",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsLayout reports whether the kind arranges child elements.
func (k Kind) IsLayout() bool {
	return k == KindVBox || k == KindHBox || k == KindForm
}

// Meta is the common view every element exposes.
type Meta struct {
	Type    Kind
	ID      string
	Style   *StyleAttrs
	Visible bool
}

// Element is a node of the intermediate UI representation.
type Element interface {
	Meta() Meta
	// Children returns the nested elements, visible or not. Leaves return nil.
	Children() []Element
}

// Common holds the fields shared by all elements.
type Common struct {
	ID     string
	Style  *StyleAttrs
	Hidden bool
}

func (c Common) meta(k Kind) Meta {
	return Meta{Type: k, ID: c.ID, Style: c.Style, Visible: !c.Hidden}
}

// Layout arranges child elements along one axis.
type Layout struct {
	Common
	Kind    Kind // KindVBox, KindHBox or KindForm
	Spacing int
	Padding Edges
	Align   Align
	Items   []Element
}

func (l *Layout) Meta() Meta          { return l.meta(l.Kind) }
func (l *Layout) Children() []Element { return l.Items }

// Label displays static text.
type Label struct {
	Common
	Text string
	For  string // id of the element this label describes
}

func (l *Label) Meta() Meta          { return l.meta(KindLabel) }
func (l *Label) Children() []Element { return nil }

// Button is a clickable widget.
type Button struct {
	Common
	Label    string
	Disabled bool
	OnClick  Handler
}

func (b *Button) Meta() Meta          { return b.meta(KindButton) }
func (b *Button) Children() []Element { return nil }

// TextInput is a single-line editable field.
type TextInput struct {
	Common
	Value       string
	Placeholder string
	Password    bool
	FormID      string // form group the input submits with
	OnChange    Handler
	OnSubmit    Handler
}

func (t *TextInput) Meta() Meta          { return t.meta(KindTextInput) }
func (t *TextInput) Children() []Element { return nil }

// SubmitKey returns the form group identifier, falling back to the input id.
func (t *TextInput) SubmitKey() string {
	if t.FormID != "" {
		return t.FormID
	}
	return t.ID
}

// Checkbox is a boolean toggle.
type Checkbox struct {
	Common
	Label    string
	Checked  bool
	OnChange Handler
}

func (c *Checkbox) Meta() Meta          { return c.meta(KindCheckbox) }
func (c *Checkbox) Children() []Element { return nil }

// Progress displays completion of a task.
type Progress struct {
	Common
	Value int
	Max   int
}

func (p *Progress) Meta() Meta          { return p.meta(KindProgress) }
func (p *Progress) Children() []Element { return nil }

// Column describes one table column.
type Column struct {
	Key      string
	Header   string
	Width    int
	Sortable bool
}

// Table displays rows of data under column headers.
type Table struct {
	Common
	Columns     []Column
	Rows        []map[string]any
	HeaderStyle *StyleAttrs
	OnRowSelect Handler
	OnSort      Handler
}

func (t *Table) Meta() Meta          { return t.meta(KindTable) }
func (t *Table) Children() []Element { return nil }

// MenuItem is one entry of a menu, optionally with a submenu.
type MenuItem struct {
	ID       string
	Label    string
	Disabled bool
	Hidden   bool
	OnClick  Handler
	Items    []MenuItem
}

// Menu is a list of actions; Context marks a context menu.
type Menu struct {
	Common
	Context bool
	Items   []MenuItem
}

func (m *Menu) Meta() Meta {
	if m.Context {
		return m.meta(KindContextMenu)
	}
	return m.meta(KindMenu)
}
func (m *Menu) Children() []Element { return nil }

// Tab is one page of a Tabs container.
type Tab struct {
	ID      string
	Label   string
	Content Element
}

// Tabs shows one of several pages.
type Tabs struct {
	Common
	Tabs     []Tab
	Active   string
	OnChange Handler
}

func (t *Tabs) Meta() Meta { return t.meta(KindTabs) }

// Children returns the content of every tab.
func (t *Tabs) Children() []Element {
	var out []Element
	for _, tab := range t.Tabs {
		if tab.Content != nil {
			out = append(out, tab.Content)
		}
	}
	return out
}

// ActiveTab returns the selected tab, defaulting to the first one.
func (t *Tabs) ActiveTab() (Tab, bool) {
	for _, tab := range t.Tabs {
		if tab.ID == t.Active {
			return tab, true
		}
	}
	if len(t.Tabs) > 0 {
		return t.Tabs[0], true
	}
	return Tab{}, false
}

// TreeNode is a node of a tree view.
type TreeNode struct {
	ID       string
	Label    string
	Expanded bool
	Children []TreeNode
}

// TreeView displays a hierarchy of nodes.
type TreeView struct {
	Common
	RootNodes []TreeNode
	OnSelect  Handler
	OnToggle  Handler
}

func (t *TreeView) Meta() Meta          { return t.meta(KindTreeView) }
func (t *TreeView) Children() []Element { return nil }

// Walk visits el and its visible descendants depth first. Invisible elements
// and their subtrees are skipped. Returning false from fn skips the subtree.
func Walk(el Element, fn func(Element) bool) {
	if el == nil || !el.Meta().Visible || !fn(el) {
		return
	}
	for _, c := range el.Children() {
		Walk(c, fn)
	}
}

// WalkAll visits el and every descendant regardless of visibility.
func WalkAll(el Element, fn func(Element) bool) {
	if el == nil || !fn(el) {
		return
	}
	for _, c := range el.Children() {
		WalkAll(c, fn)
	}
}

// Find returns the visible element with the given id.
func Find(root Element, id string) Element {
	if id == "" {
		return nil
	}
	var found Element
	Walk(root, func(el Element) bool {
		if found != nil {
			return false
		}
		if el.Meta().ID == id {
			found = el
			return false
		}
		return true
	})
	return found
}
