package unifiedui

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is a YAML interchange form of a declaration: named styles, an
// element tree and an optional initial state.
//
//	styles:
//	  base: {fg: white}
//	  primary: {extends: base, attrs: [bold]}
//	state:
//	  submitted: false
//	root:
//	  type: vbox
//	  id: main
//	  children:
//	    - {type: label, text: Email, for: email}
//	    - {type: text_input, id: email, form_id: login_form, on_submit: submit_login}
type Document struct {
	Styles []StyleDef
	State  map[string]any
	Root   *Node
}

// StyleGraph builds the style graph of the document.
func (d *Document) StyleGraph() (*StyleGraph, error) {
	return NewStyleGraph(d.Styles...)
}

// DecodeDocument parses a YAML document.
func DecodeDocument(data []byte) (*Document, error) {
	var raw struct {
		Styles yaml.Node      `yaml:"styles"`
		State  map[string]any `yaml:"state"`
		Root   *Node          `yaml:"root"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Root == nil {
		return nil, fmt.Errorf("document has no root")
	}
	styles, err := decodeStyles(&raw.Styles)
	if err != nil {
		return nil, err
	}
	state, _ := normalize(raw.State).(map[string]any)
	return &Document{Styles: styles, State: state, Root: raw.Root}, nil
}

// LoadDocument reads a YAML document and records path in every position.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Root.Walk(func(n *Node) bool {
		n.Pos.File = path
		return true
	})
	for i := range doc.Styles {
		doc.Styles[i].Pos.File = path
	}
	return doc, nil
}

func decodeStyles(n *yaml.Node) ([]StyleDef, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%d:%d: styles must be a mapping", n.Line, n.Column)
	}
	var defs []StyleDef
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		var body map[string]any
		if err := v.Decode(&body); err != nil {
			return nil, fmt.Errorf("%d:%d: style %s: %w", v.Line, v.Column, k.Value, err)
		}
		body, _ = normalize(body).(map[string]any)
		def := StyleDef{Name: k.Value, Pos: Pos{Line: k.Line, Col: k.Column}}
		if ext, ok := body["extends"]; ok {
			s, ok := ext.(string)
			if !ok {
				return nil, fmt.Errorf("%d:%d: style %s: extends must be a name", v.Line, v.Column, k.Value)
			}
			def.Extends = s
			delete(body, "extends")
		}
		attrs, err := ParseStyleMap(body)
		if err != nil {
			return nil, fmt.Errorf("%d:%d: style %s: %w", v.Line, v.Column, k.Value, err)
		}
		def.Attrs = attrs
		defs = append(defs, def)
	}
	return defs, nil
}

// UnmarshalYAML decodes a node mapping. The type key names the element,
// collection keys hold child nodes and every other key is an attribute.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%d:%d: element must be a mapping", value.Line, value.Column)
	}
	*n = Node{Attrs: make(map[string]any), Pos: Pos{Line: value.Line, Col: value.Column}}
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		switch key := k.Value; {
		case key == "type":
			n.Name = v.Value
		case isCollection(key):
			var kids []*Node
			if err := v.Decode(&kids); err != nil {
				return err
			}
			n.setCollection(Collection(key), kids)
		default:
			var val any
			if err := v.Decode(&val); err != nil {
				return fmt.Errorf("%d:%d: %s: %w", v.Line, v.Column, key, err)
			}
			n.Attrs[key] = normalize(val)
		}
	}
	if n.Name == "" {
		return fmt.Errorf("%d:%d: element without type", value.Line, value.Column)
	}
	return nil
}

func isCollection(key string) bool {
	for _, c := range Collections {
		if string(c) == key {
			return true
		}
	}
	return false
}

func (n *Node) setCollection(c Collection, kids []*Node) {
	switch c {
	case CollChildren:
		n.Children = kids
	case CollItems:
		n.Items = kids
	case CollColumns:
		n.Columns = kids
	case CollTabs:
		n.Tabs = kids
	case CollNodes:
		n.Nodes = kids
	}
}

// normalize turns decoded YAML into map[string]any and []any throughout.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}
