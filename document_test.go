package unifiedui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const loginDoc = `styles:
  base: {fg: white}
  primary: {extends: base, attrs: [bold], padding: [0, 1]}
state:
  submitted: false
root:
  type: vbox
  id: main
  children:
    - {type: label, text: Email, for: email}
    - type: text_input
      id: email
      form_id: login_form
      on_submit: [submit_login, {submitted: true}]
    - {type: button, id: login, label: Log in, style: primary, on_click: login_clicked}
    - type: table
      id: users
      rows: [{name: ann}]
      columns:
        - {type: column, key: name, header: Name}
`

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument([]byte(loginDoc))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Styles", func(t *testing.T) {
		var names []string
		for _, s := range doc.Styles {
			names = append(names, s.Name)
		}
		if diff := cmp.Diff([]string{"base", "primary"}, names); diff != "" {
			t.Errorf("style order mismatch:\n%s", diff)
		}
		p := doc.Styles[1]
		if p.Extends != "base" || p.Attrs.Text != AttrBold || p.Pos != (Pos{Line: 3, Col: 3}) {
			t.Errorf("primary = %+v", p)
		}
		g, err := doc.StyleGraph()
		if err != nil {
			t.Fatal(err)
		}
		got, err := g.Resolve("primary", StyleAttrs{})
		if err != nil {
			t.Fatal(err)
		}
		if got.FG == nil || !got.FG.Equal(White) || *got.Padding != (Edges{0, 1, 0, 1}) {
			t.Errorf("resolved primary = %+v", got)
		}
	})

	t.Run("Tree", func(t *testing.T) {
		root := doc.Root
		if root.Name != "vbox" || root.ID() != "main" || root.Pos != (Pos{Line: 7, Col: 3}) {
			t.Errorf("root = %+v", root)
		}
		if len(root.Children) != 4 {
			t.Fatalf("children = %d", len(root.Children))
		}
		if lbl := root.Children[0]; lbl.Pos != (Pos{Line: 10, Col: 7}) || lbl.AttrString("for") != "email" {
			t.Errorf("label = %+v", lbl)
		}
		in := root.Children[1]
		want := []any{"submit_login", map[string]any{"submitted": true}}
		if diff := cmp.Diff(want, in.Attrs["on_submit"]); diff != "" {
			t.Errorf("on_submit mismatch:\n%s", diff)
		}
		tbl := root.Children[3]
		if len(tbl.Columns) != 1 || tbl.Columns[0].AttrString("key") != "name" {
			t.Errorf("columns = %+v", tbl.Columns)
		}
		if _, ok := tbl.Attrs["columns"]; ok {
			t.Error("collection stored as an attribute")
		}
	})

	t.Run("State", func(t *testing.T) {
		if diff := cmp.Diff(map[string]any{"submitted": false}, doc.State); diff != "" {
			t.Errorf("state mismatch:\n%s", diff)
		}
	})

	t.Run("BuildAndDispatch", func(t *testing.T) {
		g, _ := doc.StyleGraph()
		if errs := Verify(doc.Root, g); len(errs) != 0 {
			t.Fatalf("unexpected verify errors: %v", errs)
		}
		el, err := Build(doc.Root, g)
		if err != nil {
			t.Fatal(err)
		}
		if btn := Find(el, "login").(*Button); btn.Style == nil || btn.Style.Text != AttrBold {
			t.Errorf("button style = %+v", btn.Style)
		}
		got := Dispatch(State(doc.State), Submit("login_form", map[string]any{"email": "a@b.com"}), ExtractElementRoutes(el))
		if diff := cmp.Diff(State{"submitted": true, "email": "a@b.com"}, got); diff != "" {
			t.Errorf("state mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDecodeDocumentErrors(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"NoRoot", "state: {a: 1}\n", "document has no root"},
		{"NoType", "root: {id: x}\n", "element without type"},
		{"NestedNoType", "root:\n  type: vbox\n  children:\n    - {text: hi}\n", "4:7: element without type"},
		{"NotMapping", "root: [1, 2]\n", "element must be a mapping"},
		{"StylesNotMapping", "styles: [a]\nroot: {type: vbox}\n", "styles must be a mapping"},
		{"ExtendsNotName", "styles:\n  a: {extends: [b]}\nroot: {type: vbox}\n", "extends must be a name"},
		{"UnknownStyleAttr", "styles:\n  a: {sparkle: 1}\nroot: {type: vbox}\n", `unknown style attribute "sparkle"`},
		{"Syntax", "root: {type: [\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(tt.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	src := "styles:\n  base: {fg: red}\nroot:\n  type: vbox\n  children:\n    - {type: button, id: b}\n    - {type: button, id: b}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Root.Pos.File != path || doc.Root.Children[1].Pos.File != path || doc.Styles[0].Pos.File != path {
		t.Error("positions do not carry the file")
	}
	g, _ := doc.StyleGraph()
	errs := Verify(doc.Root, g)
	if len(errs) != 1 {
		t.Fatalf("errors = %v", errs)
	}
	want := path + `:7:7: button "b": duplicate id, first declared at ` + path + ":6:7"
	if errs[0].Error() != want {
		t.Errorf("error = %q, want %q", errs[0], want)
	}

	if _, err := LoadDocument(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}
