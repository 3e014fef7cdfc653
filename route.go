package unifiedui

// RouteKind is the interaction class of a route.
type RouteKind uint8

const (
	RouteClick RouteKind = iota
	RouteChange
	RouteSubmit
)

func (k RouteKind) String() string {
	switch k {
	case RouteChange:
		return "change"
	case RouteSubmit:
		return "submit"
	}
	return "click"
}

// Route maps one interaction binding to a state update.
type Route struct {
	Kind    RouteKind
	Key     string // dedup key: the action name, or the source for calls
	Handler Handler
	Payload map[string]any
	Source  string // originating element identifier
}

// RouteTable holds deduplicated routes per kind, in discovery order.
type RouteTable struct {
	Click  []Route
	Change []Route
	Submit []Route
}

// Routes returns the routes of the given kind.
func (t RouteTable) Routes(k RouteKind) []Route {
	switch k {
	case RouteChange:
		return t.Change
	case RouteSubmit:
		return t.Submit
	}
	return t.Click
}

// Len returns the total number of routes.
func (t RouteTable) Len() int {
	return len(t.Click) + len(t.Change) + len(t.Submit)
}

// routeKey derives the dedup key: static handlers key on their action name,
// everything else on the originating element.
func routeKey(h Handler, source string) string {
	if name := actionName(h); name != "" {
		return name
	}
	return source
}

// bindingSource returns the element identifier a binding routes from: the
// form group for text input submits, otherwise the element id.
func bindingSource(n *Node, attr string) string {
	if attr == "on_submit" && n.Name == "text_input" {
		if form := n.AttrString("form_id"); form != "" {
			return form
		}
	}
	return n.ID()
}

// routeCollector accumulates routes, keeping the first route per key.
type routeCollector struct {
	table RouteTable
	seen  [3]map[string]bool
}

func newRouteCollector() *routeCollector {
	c := &routeCollector{}
	for i := range c.seen {
		c.seen[i] = make(map[string]bool)
	}
	return c
}

func (c *routeCollector) add(kind RouteKind, h Handler, source string) {
	if h == nil {
		return
	}
	key := routeKey(h, source)
	if key == "" {
		// Unreachable: calls without a source cannot be matched.
		return
	}
	if c.seen[kind][key] {
		return
	}
	c.seen[kind][key] = true
	r := Route{Kind: kind, Key: key, Handler: h, Payload: staticPayload(h), Source: source}
	switch kind {
	case RouteClick:
		c.table.Click = append(c.table.Click, r)
	case RouteChange:
		c.table.Change = append(c.table.Change, r)
	case RouteSubmit:
		c.table.Submit = append(c.table.Submit, r)
	}
}

// clickBindings lists, per declaration name, the attributes that bind clicks.
var clickBindings = map[string][]string{
	"button":    {"on_click"},
	"menu_item": {"on_click"},
	"table":     {"on_row_select", "on_sort"},
	"tabs":      {"on_change"},
	"tree_view": {"on_select", "on_toggle"},
}

// ExtractRoutes walks every node reachable from root, through every child
// collection, and collects its interaction bindings.
func ExtractRoutes(root *Node) RouteTable {
	c := newRouteCollector()
	root.Walk(func(n *Node) bool {
		id := n.ID()
		for _, attr := range clickBindings[n.Name] {
			c.add(RouteClick, handlerAttr(n, attr), id)
		}
		switch n.Name {
		case "text_input":
			c.add(RouteChange, handlerAttr(n, "on_change"), id)
			c.add(RouteSubmit, handlerAttr(n, "on_submit"), bindingSource(n, "on_submit"))
		case "checkbox":
			c.add(RouteChange, handlerAttr(n, "on_change"), id)
		}
		return true
	})
	return c.table
}

// ExtractElementRoutes collects the bindings of the visible elements of an
// IUR tree. Hidden elements, hidden menu items and their descendants
// contribute nothing.
func ExtractElementRoutes(root Element) RouteTable {
	c := newRouteCollector()
	Walk(root, func(el Element) bool {
		switch e := el.(type) {
		case *Button:
			c.add(RouteClick, e.OnClick, e.ID)
		case *Menu:
			c.menuItems(e.Items)
		case *Table:
			c.add(RouteClick, e.OnRowSelect, e.ID)
			c.add(RouteClick, e.OnSort, e.ID)
		case *Tabs:
			c.add(RouteClick, e.OnChange, e.ID)
		case *TreeView:
			c.add(RouteClick, e.OnSelect, e.ID)
			c.add(RouteClick, e.OnToggle, e.ID)
		case *TextInput:
			c.add(RouteChange, e.OnChange, e.ID)
			c.add(RouteSubmit, e.OnSubmit, e.SubmitKey())
		case *Checkbox:
			c.add(RouteChange, e.OnChange, e.ID)
		}
		return true
	})
	return c.table
}

func (c *routeCollector) menuItems(items []MenuItem) {
	for _, it := range items {
		if it.Hidden {
			continue
		}
		c.add(RouteClick, it.OnClick, it.ID)
		c.menuItems(it.Items)
	}
}
