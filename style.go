package unifiedui

import (
	"fmt"
	"sort"
	"strings"
)

// Edges holds per-side spacing values.
type Edges struct {
	Top, Right, Bottom, Left int
}

// Uniform returns edges with the same value on every side.
func Uniform(v int) Edges {
	return Edges{v, v, v, v}
}

// Align is a content alignment.
type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	}
	return "start"
}

// ParseAlign parses an alignment name.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start", "left", "top":
		return AlignStart, nil
	case "center", "centre", "middle":
		return AlignCenter, nil
	case "end", "right", "bottom":
		return AlignEnd, nil
	}
	return AlignStart, fmt.Errorf("invalid alignment %q", s)
}

// StyleAttrs is a flat style attribute set. Nil fields are absent; Text is a
// set and an empty set is absent.
type StyleAttrs struct {
	FG      *Color
	BG      *Color
	Text    Attribute
	Padding *Edges
	Margin  *Edges
	Width   *int
	Height  *int
	Align   *Align
	Spacing *int
}

// Merge returns a with over applied on top. Scalar attributes set in over
// replace those in a; text attributes are the union of both sets.
func (a StyleAttrs) Merge(over StyleAttrs) StyleAttrs {
	out := a
	if over.FG != nil {
		out.FG = over.FG
	}
	if over.BG != nil {
		out.BG = over.BG
	}
	out.Text = a.Text | over.Text
	if over.Padding != nil {
		out.Padding = over.Padding
	}
	if over.Margin != nil {
		out.Margin = over.Margin
	}
	if over.Width != nil {
		out.Width = over.Width
	}
	if over.Height != nil {
		out.Height = over.Height
	}
	if over.Align != nil {
		out.Align = over.Align
	}
	if over.Spacing != nil {
		out.Spacing = over.Spacing
	}
	return out
}

// IsZero reports whether no attribute is set.
func (a StyleAttrs) IsZero() bool {
	return a == StyleAttrs{}
}

// StyleAttr is one key/value pair of an inline style declaration.
type StyleAttr struct {
	Key   string
	Value any
}

// styleKeys maps accepted attribute names onto canonical ones.
var styleKeys = map[string]string{
	"fg":         "fg",
	"foreground": "fg",
	"color":      "fg",
	"bg":         "bg",
	"background": "bg",
	"attrs":      "attrs",
	"text":       "attrs",
	"padding":    "padding",
	"margin":     "margin",
	"width":      "width",
	"height":     "height",
	"align":      "align",
	"alignment":  "align",
	"spacing":    "spacing",
	"gap":        "spacing",
}

// IsStyleKey reports whether key names a style attribute.
func IsStyleKey(key string) bool {
	_, ok := styleKeys[key]
	return ok
}

// StyleAttrError reports an invalid inline style attribute.
type StyleAttrError struct {
	Key   string
	Value any
	Err   error
}

func (e *StyleAttrError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unknown style attribute %q", e.Key)
	}
	return fmt.Sprintf("style attribute %q: %v", e.Key, e.Err)
}

func (e *StyleAttrError) Unwrap() error { return e.Err }

// ParseStyleAttrs converts key/value pairs into a StyleAttrs. Later pairs
// override earlier ones with the same merge rule as inheritance.
func ParseStyleAttrs(pairs ...StyleAttr) (StyleAttrs, error) {
	var out StyleAttrs
	for _, p := range pairs {
		one, err := parseStyleAttr(p)
		if err != nil {
			return StyleAttrs{}, err
		}
		out = out.Merge(one)
	}
	return out, nil
}

// ParseStyleMap converts an attribute map into a StyleAttrs. Keys are applied
// in sorted order so errors are reported deterministically.
func ParseStyleMap(m map[string]any) (StyleAttrs, error) {
	return ParseStyleAttrs(mapPairs(m)...)
}

func mapPairs(m map[string]any) []StyleAttr {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]StyleAttr, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, StyleAttr{Key: k, Value: m[k]})
	}
	return pairs
}

func parseStyleAttr(p StyleAttr) (StyleAttrs, error) {
	var out StyleAttrs
	canon, ok := styleKeys[p.Key]
	if !ok {
		return out, &StyleAttrError{Key: p.Key, Value: p.Value}
	}
	fail := func(err error) (StyleAttrs, error) {
		return StyleAttrs{}, &StyleAttrError{Key: p.Key, Value: p.Value, Err: err}
	}
	switch canon {
	case "fg", "bg":
		c, err := colorValue(p.Value)
		if err != nil {
			return fail(err)
		}
		if canon == "fg" {
			out.FG = &c
		} else {
			out.BG = &c
		}
	case "attrs":
		a, err := attributeValue(p.Value)
		if err != nil {
			return fail(err)
		}
		out.Text = a
	case "padding", "margin":
		e, err := edgesValue(p.Value)
		if err != nil {
			return fail(err)
		}
		if canon == "padding" {
			out.Padding = &e
		} else {
			out.Margin = &e
		}
	case "width", "height", "spacing":
		n, ok := toInt(p.Value)
		if !ok || n < 0 {
			return fail(fmt.Errorf("expected non-negative integer, got %v", p.Value))
		}
		switch canon {
		case "width":
			out.Width = &n
		case "height":
			out.Height = &n
		default:
			out.Spacing = &n
		}
	case "align":
		var al Align
		switch v := p.Value.(type) {
		case Align:
			al = v
		case string:
			var err error
			if al, err = ParseAlign(v); err != nil {
				return fail(err)
			}
		default:
			return fail(fmt.Errorf("expected alignment name, got %v", p.Value))
		}
		out.Align = &al
	}
	return out, nil
}

func colorValue(v any) (Color, error) {
	switch c := v.(type) {
	case Color:
		return c, nil
	case string:
		return ParseColor(c)
	}
	if n, ok := toInt(v); ok && n >= 0 && n < 256 {
		return ParseColor(fmt.Sprint(n))
	}
	return Color{}, fmt.Errorf("expected color, got %v", v)
}

func attributeValue(v any) (Attribute, error) {
	switch a := v.(type) {
	case Attribute:
		return a, nil
	case string:
		var out Attribute
		for _, f := range strings.FieldsFunc(a, func(r rune) bool { return r == ',' || r == '|' || r == ' ' }) {
			one, err := ParseAttribute(f)
			if err != nil {
				return AttrNone, err
			}
			out |= one
		}
		return out, nil
	case []string:
		var out Attribute
		for _, s := range a {
			one, err := ParseAttribute(s)
			if err != nil {
				return AttrNone, err
			}
			out |= one
		}
		return out, nil
	case []any:
		var out Attribute
		for _, e := range a {
			one, err := attributeValue(e)
			if err != nil {
				return AttrNone, err
			}
			out |= one
		}
		return out, nil
	}
	return AttrNone, fmt.Errorf("expected text attributes, got %v", v)
}

// edgesValue accepts one, two or four values in CSS order.
func edgesValue(v any) (Edges, error) {
	switch e := v.(type) {
	case Edges:
		return e, nil
	case []int:
		vals := make([]any, len(e))
		for i, n := range e {
			vals[i] = n
		}
		return edgesValue(vals)
	case []any:
		ns := make([]int, len(e))
		for i, x := range e {
			n, ok := toInt(x)
			if !ok || n < 0 {
				return Edges{}, fmt.Errorf("expected non-negative integer, got %v", x)
			}
			ns[i] = n
		}
		switch len(ns) {
		case 1:
			return Uniform(ns[0]), nil
		case 2:
			return Edges{ns[0], ns[1], ns[0], ns[1]}, nil
		case 4:
			return Edges{ns[0], ns[1], ns[2], ns[3]}, nil
		}
		return Edges{}, fmt.Errorf("expected 1, 2 or 4 values, got %d", len(ns))
	}
	n, ok := toInt(v)
	if !ok || n < 0 {
		return Edges{}, fmt.Errorf("expected non-negative integer, got %v", v)
	}
	return Uniform(n), nil
}
