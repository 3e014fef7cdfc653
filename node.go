package unifiedui

import (
	"fmt"
	"math"
)

// Pos is a source location carried by declarations so verification
// messages can point at the offending entity.
type Pos struct {
	File string
	Line int
	Col  int
}

func (p Pos) String() string {
	switch {
	case p.File == "" && p.Line == 0:
		return "-"
	case p.File == "":
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Collection names a child collection of a declaration node.
type Collection string

const (
	CollChildren Collection = "children"
	CollItems    Collection = "items"
	CollColumns  Collection = "columns"
	CollTabs     Collection = "tabs"
	CollNodes    Collection = "nodes"
)

// Collections lists the child collections in traversal order.
var Collections = []Collection{CollChildren, CollItems, CollColumns, CollTabs, CollNodes}

// Node is a validated declaration: a named element with attributes and
// ordered child collections. Nodes are treated as immutable once built.
type Node struct {
	Name     string
	Attrs    map[string]any
	Children []*Node
	Items    []*Node
	Columns  []*Node
	Tabs     []*Node
	Nodes    []*Node
	Pos      Pos
}

// N creates a node with the given name, attributes and generic children.
func N(name string, attrs map[string]any, children ...*Node) *Node {
	return &Node{Name: name, Attrs: attrs, Children: children}
}

// Collection returns the nodes held under the given collection.
func (n *Node) Collection(c Collection) []*Node {
	switch c {
	case CollChildren:
		return n.Children
	case CollItems:
		return n.Items
	case CollColumns:
		return n.Columns
	case CollTabs:
		return n.Tabs
	case CollNodes:
		return n.Nodes
	}
	return nil
}

// All returns every child across all collections, in traversal order.
func (n *Node) All() []*Node {
	var all []*Node
	for _, c := range Collections {
		all = append(all, n.Collection(c)...)
	}
	return all
}

// Walk visits n and every node reachable from it, depth first.
// Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Collections {
		for _, child := range n.Collection(c) {
			child.Walk(fn)
		}
	}
}

// Attr returns the raw attribute value and whether it was declared.
func (n *Node) Attr(key string) (any, bool) {
	if n.Attrs == nil {
		return nil, false
	}
	v, ok := n.Attrs[key]
	return v, ok
}

// ID returns the declared identifier, or "".
func (n *Node) ID() string {
	return n.AttrString("id")
}

// AttrString returns a string attribute, or "" when absent or not a string.
func (n *Node) AttrString(key string) string {
	v, _ := n.Attr(key)
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return ""
}

// AttrInt returns an integer attribute, or def when absent or not numeric.
func (n *Node) AttrInt(key string, def int) int {
	v, ok := n.Attr(key)
	if !ok {
		return def
	}
	if i, ok := toInt(v); ok {
		return i
	}
	return def
}

// AttrBool returns a boolean attribute, or def when absent.
func (n *Node) AttrBool(key string, def bool) bool {
	v, ok := n.Attr(key)
	if !ok {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint:
		return int(x), true
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return int(x), true
	case uint64:
		return int(x), true
	case float64:
		if x == math.Trunc(x) {
			return int(x), true
		}
	case float32:
		if float64(x) == math.Trunc(float64(x)) {
			return int(x), true
		}
	}
	return 0, false
}
