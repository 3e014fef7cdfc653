package unifiedui

import (
	"fmt"
	"strings"
)

// StyleDef is a named style declaration with an optional parent.
type StyleDef struct {
	Name    string
	Extends string
	Attrs   StyleAttrs
	Pos     Pos
}

// CircularStyleError reports an extends chain that revisits a style.
type CircularStyleError struct {
	Chain []string
}

func (e *CircularStyleError) Error() string {
	return fmt.Sprintf("circular style reference: %s", strings.Join(e.Chain, " -> "))
}

// StyleNotFoundError reports a named style reference with no declaration.
type StyleNotFoundError struct {
	Name string
}

func (e *StyleNotFoundError) Error() string {
	return fmt.Sprintf("style not found: %q", e.Name)
}

// DuplicateStyleError reports two declarations sharing a name.
type DuplicateStyleError struct {
	Name       string
	First, Dup Pos
}

func (e *DuplicateStyleError) Error() string {
	return fmt.Sprintf("%s: style %q already declared at %s", e.Dup, e.Name, e.First)
}

// StyleRefError reports a style reference whose shape is not understood.
type StyleRefError struct {
	Ref any
	Msg string
}

func (e *StyleRefError) Error() string {
	return fmt.Sprintf("malformed style reference %v: %s", e.Ref, e.Msg)
}

// StyleGraph holds the declared styles of one compile. It is read-only once
// built, so it may be shared between goroutines.
type StyleGraph struct {
	defs  map[string]StyleDef
	order []string
}

// NewStyleGraph builds a graph from declarations, rejecting duplicate names.
func NewStyleGraph(defs ...StyleDef) (*StyleGraph, error) {
	g := &StyleGraph{defs: make(map[string]StyleDef, len(defs))}
	for _, d := range defs {
		if prev, ok := g.defs[d.Name]; ok {
			return nil, &DuplicateStyleError{Name: d.Name, First: prev.Pos, Dup: d.Pos}
		}
		g.defs[d.Name] = d
		g.order = append(g.order, d.Name)
	}
	return g, nil
}

// Lookup returns the declaration for name.
func (g *StyleGraph) Lookup(name string) (StyleDef, bool) {
	if g == nil {
		return StyleDef{}, false
	}
	d, ok := g.defs[name]
	return d, ok
}

// Names returns style names in declaration order.
func (g *StyleGraph) Names() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.order...)
}

// Resolve flattens the named style along its extends chain and applies
// overrides last. An undeclared name resolves to an empty set; a missing
// parent contributes nothing. Only a cycle is an error.
func (g *StyleGraph) Resolve(name string, overrides StyleAttrs) (StyleAttrs, error) {
	base, err := g.ascend(name, nil)
	if err != nil {
		return StyleAttrs{}, err
	}
	return base.Merge(overrides), nil
}

func (g *StyleGraph) ascend(name string, visited []string) (StyleAttrs, error) {
	for _, seen := range visited {
		if seen == name {
			chain := append(append([]string(nil), visited...), name)
			return StyleAttrs{}, &CircularStyleError{Chain: chain}
		}
	}
	def, ok := g.Lookup(name)
	if !ok {
		return StyleAttrs{}, nil
	}
	visited = append(visited, name)

	var parent StyleAttrs
	if def.Extends != "" {
		p, err := g.ascend(def.Extends, visited)
		if err != nil {
			return StyleAttrs{}, err
		}
		parent = p
	}
	return parent.Merge(def.Attrs), nil
}

// styleRef is the decoded shape of a style reference.
type styleRef struct {
	name      string
	overrides []StyleAttr
	inline    bool
}

// asPair reports whether v is a single key/value pair: a StyleAttr, a
// one-entry map or a two-element list with a string key.
func asPair(v any) (StyleAttr, bool) {
	switch p := v.(type) {
	case StyleAttr:
		return p, true
	case map[string]any:
		if len(p) == 1 {
			for k, val := range p {
				return StyleAttr{Key: k, Value: val}, true
			}
		}
	case []any:
		if len(p) == 2 {
			if k, ok := p[0].(string); ok {
				return StyleAttr{Key: k, Value: p[1]}, true
			}
		}
	}
	return StyleAttr{}, false
}

// pairsOf flattens an override entry, which may be a pair or a multi-key map.
func pairsOf(v any) ([]StyleAttr, bool) {
	if m, ok := v.(map[string]any); ok {
		return mapPairs(m), true
	}
	if p, ok := asPair(v); ok {
		return []StyleAttr{p}, true
	}
	if ps, ok := v.([]StyleAttr); ok {
		return ps, true
	}
	return nil, false
}

func decodeStyleRef(ref any) (styleRef, error) {
	switch r := ref.(type) {
	case nil:
		return styleRef{inline: true}, nil
	case string:
		return styleRef{name: r}, nil
	case StyleAttr:
		return styleRef{inline: true, overrides: []StyleAttr{r}}, nil
	case []StyleAttr:
		return styleRef{inline: true, overrides: r}, nil
	case map[string]any:
		return styleRef{inline: true, overrides: mapPairs(r)}, nil
	case []string:
		list := make([]any, len(r))
		for i, s := range r {
			list[i] = s
		}
		return decodeStyleRef(list)
	case []any:
		if len(r) == 0 {
			return styleRef{inline: true}, nil
		}
		var out styleRef
		rest := r
		if p, ok := asPair(r[0]); ok && IsStyleKey(p.Key) {
			out.inline = true
		} else {
			name, ok := r[0].(string)
			if !ok {
				return styleRef{}, &StyleRefError{Ref: ref, Msg: "first element is neither a style name nor an attribute"}
			}
			out.name = name
			rest = r[1:]
		}
		for _, e := range rest {
			ps, ok := pairsOf(e)
			if !ok {
				return styleRef{}, &StyleRefError{Ref: ref, Msg: fmt.Sprintf("%v is not an attribute pair", e)}
			}
			out.overrides = append(out.overrides, ps...)
		}
		return out, nil
	}
	return styleRef{}, &StyleRefError{Ref: ref, Msg: "unsupported type"}
}

// ResolveStyleRef resolves a style reference: a bare style name, an inline
// attribute list, or a list of a style name followed by inline overrides.
func (g *StyleGraph) ResolveStyleRef(ref any) (StyleAttrs, error) {
	if a, ok := ref.(StyleAttrs); ok {
		return a, nil
	}
	r, err := decodeStyleRef(ref)
	if err != nil {
		return StyleAttrs{}, err
	}
	overrides, err := ParseStyleAttrs(r.overrides...)
	if err != nil {
		return StyleAttrs{}, err
	}
	if r.inline {
		return overrides, nil
	}
	return g.Resolve(r.name, overrides)
}

// ValidateStyleRef checks the reference shape without resolving it. It
// returns a *StyleNotFoundError only when a named reference has no declaration.
func (g *StyleGraph) ValidateStyleRef(ref any) error {
	if _, ok := ref.(StyleAttrs); ok {
		return nil
	}
	r, err := decodeStyleRef(ref)
	if err != nil || r.inline {
		return nil
	}
	if _, ok := g.Lookup(r.name); !ok {
		return &StyleNotFoundError{Name: r.name}
	}
	return nil
}
