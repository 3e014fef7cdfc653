package unifiedui

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// VerifyError is one problem found in a declaration before building.
type VerifyError struct {
	Entity string // element or style name
	ID     string
	Pos    Pos
	Msg    string
}

func (e *VerifyError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Pos.String())
	sb.WriteString(": ")
	sb.WriteString(e.Entity)
	if e.ID != "" {
		fmt.Fprintf(&sb, " %q", e.ID)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	return sb.String()
}

// handlerAttrs lists the attributes that hold interaction bindings.
var handlerAttrs = []string{"on_click", "on_change", "on_submit", "on_row_select", "on_sort", "on_select", "on_toggle"}

// Verify checks a declaration tree against its styles and returns every
// problem found, in document order: unknown elements, duplicate ids, label
// references to missing ids, malformed handlers, calls bound to elements
// without an id, malformed or dangling style references, and style
// declarations with cycles or missing parents.
func Verify(root *Node, styles *StyleGraph) []error {
	v := &verifier{styles: styles, ids: make(map[string]Pos)}
	for _, name := range styles.Names() {
		v.style(name)
	}
	if root != nil {
		v.element(root)
	}
	for _, l := range v.labels {
		if _, ok := v.ids[l.AttrString("for")]; !ok {
			v.errorf(l, "for references undeclared id %q", l.AttrString("for"))
		}
	}
	return v.errs
}

type verifier struct {
	styles *StyleGraph
	ids    map[string]Pos
	labels []*Node
	errs   []error
}

func (v *verifier) errorf(n *Node, format string, args ...any) {
	v.errs = append(v.errs, &VerifyError{Entity: n.Name, ID: n.ID(), Pos: n.Pos, Msg: fmt.Sprintf(format, args...)})
}

func (v *verifier) style(name string) {
	def, _ := v.styles.Lookup(name)
	_, err := v.styles.Resolve(name, StyleAttrs{})
	var cyc *CircularStyleError
	if errors.As(err, &cyc) {
		// Report each cycle once, at its smallest member.
		if cycleLeader(cyc.Chain) == name {
			v.errs = append(v.errs, &VerifyError{Entity: "style", ID: name, Pos: def.Pos, Msg: err.Error()})
		}
		return
	}
	if def.Extends != "" {
		if _, ok := v.styles.Lookup(def.Extends); !ok {
			v.errs = append(v.errs, &VerifyError{Entity: "style", ID: name, Pos: def.Pos,
				Msg: fmt.Sprintf("extends undeclared style %q", def.Extends)})
		}
	}
}

// cycleLeader returns the smallest name on the loop part of a chain.
// Styles that only lead into a loop get "".
func cycleLeader(chain []string) string {
	last := chain[len(chain)-1]
	if chain[0] != last {
		return ""
	}
	leader := last
	for _, s := range chain[:len(chain)-1] {
		if s < leader {
			leader = s
		}
	}
	return leader
}

// common checks what every declared entity shares: its id, handlers and
// style references.
func (v *verifier) common(n *Node) {
	if id := n.ID(); id != "" {
		if first, ok := v.ids[id]; ok {
			v.errorf(n, "duplicate id, first declared at %s", first)
		} else {
			v.ids[id] = n.Pos
		}
	}
	for _, attr := range handlerAttrs {
		raw, ok := n.Attr(attr)
		if !ok {
			continue
		}
		switch h := ParseHandler(raw).(type) {
		case UnknownHandler:
			v.errorf(n, "%s: malformed handler %v", attr, h.Raw)
		case Call:
			if bindingSource(n, attr) == "" {
				v.errorf(n, "%s: call %s on an element without id", attr, h)
			}
		}
	}
	for _, attr := range []string{"style", "header_style"} {
		ref, ok := n.Attr(attr)
		if !ok || ref == nil {
			continue
		}
		v.styleRef(n, attr, ref)
	}
}

func (v *verifier) styleRef(n *Node, attr string, ref any) {
	r, err := decodeStyleRef(ref)
	if err != nil {
		v.errorf(n, "%s: %v", attr, err)
		return
	}
	if _, err := ParseStyleAttrs(r.overrides...); err != nil {
		v.errorf(n, "%s: %v", attr, err)
	}
	if err := v.styles.ValidateStyleRef(ref); err != nil {
		v.errorf(n, "%s: %v", attr, err)
	}
}

func (v *verifier) element(n *Node) {
	if !IsKnownElement(n.Name) {
		v.errorf(n, "unknown element")
		return
	}
	if IsNonVisual(n.Name) {
		return
	}
	v.common(n)
	switch n.Name {
	case "label", "text":
		if n.AttrString("for") != "" {
			v.labels = append(v.labels, n)
		}
	case "table":
		for _, col := range append(append([]*Node(nil), n.Columns...), n.Children...) {
			v.common(col)
			if col.AttrString("key") == "" && col.ID() == "" {
				v.errorf(col, "column without key")
			}
		}
		if rows, ok := n.Attr("rows"); ok {
			if _, ok := rows.([]any); !ok {
				v.errorf(n, "rows: expected a list, got %T", rows)
			}
		}
	case "menu", "context_menu":
		v.parts(append(append([]*Node(nil), n.Items...), n.Children...), CollItems)
	case "tabs":
		for _, tab := range append(append([]*Node(nil), n.Tabs...), n.Children...) {
			v.common(tab)
			for _, c := range tab.Children {
				v.element(c)
			}
		}
	case "tree_view":
		v.parts(append(append([]*Node(nil), n.Nodes...), n.Children...), CollNodes)
	default:
		for _, c := range n.Children {
			v.element(c)
		}
	}
}

// parts checks nested menu items or tree nodes.
func (v *verifier) parts(ns []*Node, nested Collection) {
	for _, n := range ns {
		v.common(n)
		v.parts(append(append([]*Node(nil), n.Collection(nested)...), n.Children...), nested)
	}
}

// SortErrors orders verification errors by position.
func SortErrors(errs []error) {
	pos := func(e error) Pos {
		var ve *VerifyError
		if errors.As(e, &ve) {
			return ve.Pos
		}
		return Pos{}
	}
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := pos(errs[i]), pos(errs[j])
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
}
