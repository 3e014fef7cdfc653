package unifiedui

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func verifyMsgs(errs []error) []string {
	var out []string
	for _, err := range errs {
		var ve *VerifyError
		if errors.As(err, &ve) {
			out = append(out, ve.Entity+"/"+ve.ID+": "+ve.Msg)
		} else {
			out = append(out, err.Error())
		}
	}
	return out
}

func TestVerify(t *testing.T) {
	primary := mustGraph(t, StyleDef{Name: "primary", Attrs: StyleAttrs{Text: AttrBold}})

	tests := []struct {
		name   string
		root   *Node
		styles *StyleGraph
		want   []string
	}{
		{
			name:   "Clean",
			root:   loginTree(),
			styles: primary,
		},
		{
			name: "DuplicateID",
			root: N("vbox", nil,
				N("button", map[string]any{"id": "b"}),
				N("hbox", nil, N("button", map[string]any{"id": "b"})),
			),
			want: []string{`button/b: duplicate id, first declared at -`},
		},
		{
			name: "DanglingFor",
			root: N("vbox", nil, N("label", map[string]any{"text": "Who", "for": "ghost"})),
			want: []string{`label/: for references undeclared id "ghost"`},
		},
		{
			name: "ForDeclaredLater",
			root: N("vbox", nil,
				N("label", map[string]any{"for": "email"}),
				N("text_input", map[string]any{"id": "email"}),
			),
		},
		{
			name: "MalformedHandler",
			root: N("button", map[string]any{"id": "b", "on_click": 42}),
			want: []string{"button/b: on_click: malformed handler 42"},
		},
		{
			name: "CallWithoutID",
			root: N("vbox", nil,
				N("button", map[string]any{"on_click": map[string]any{"call": "auth", "op": "login"}}),
				N("text_input", map[string]any{"form_id": "f", "on_submit": map[string]any{"call": "auth", "op": "login"}}),
				N("button", map[string]any{"on_click": "plain"}),
			),
			want: []string{"button/: on_click: call auth.login/0 on an element without id"},
		},
		{
			name: "MissingStyle",
			root: N("label", map[string]any{"id": "l", "style": "ghost"}),
			want: []string{`label/l: style: style not found: "ghost"`},
		},
		{
			name:   "UnknownStyleAttr",
			root:   N("label", map[string]any{"id": "l", "style": []any{"primary", map[string]any{"sparkle": 1}}}),
			styles: primary,
			want:   []string{`label/l: style: unknown style attribute "sparkle"`},
		},
		{
			name: "BadStyleShape",
			root: N("table", map[string]any{"id": "t", "header_style": 42}),
			want: []string{"table/t: header_style: malformed style reference 42: unsupported type"},
		},
		{
			name: "UnknownElement",
			root: N("vbox", nil, N("blink", map[string]any{"id": "x"}, N("button", map[string]any{"on_click": 1}))),
			want: []string{"blink/x: unknown element"},
		},
		{
			name: "NonVisualSkipped",
			root: N("vbox", nil, N("state", map[string]any{"id": "s", "on_click": 1})),
		},
		{
			name: "Table",
			root: &Node{Name: "table", Attrs: map[string]any{"id": "t", "rows": "many"}, Columns: []*Node{
				N("column", map[string]any{"header": "X"}),
				N("column", map[string]any{"key": "y"}),
			}},
			want: []string{
				"column/: column without key",
				"table/t: rows: expected a list, got string",
			},
		},
		{
			name: "NestedParts",
			root: N("vbox", nil,
				&Node{Name: "menu", Attrs: map[string]any{"id": "m"}, Items: []*Node{
					{Name: "menu_item", Attrs: map[string]any{"id": "file"}, Items: []*Node{
						N("menu_item", map[string]any{"id": "open", "on_click": 7}),
					}},
				}},
				&Node{Name: "tabs", Tabs: []*Node{
					N("tab", map[string]any{"id": "file"}, N("blink", nil)),
				}},
			),
			want: []string{
				"menu_item/open: on_click: malformed handler 7",
				"tab/file: duplicate id, first declared at -",
				"blink/: unknown element",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := verifyMsgs(Verify(tt.root, tt.styles))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVerifyStyles(t *testing.T) {
	g := mustGraph(t,
		StyleDef{Name: "b", Extends: "a"},
		StyleDef{Name: "a", Extends: "b"},
		StyleDef{Name: "c", Extends: "a"},
		StyleDef{Name: "d", Extends: "nope"},
		StyleDef{Name: "self", Extends: "self"},
	)
	got := verifyMsgs(Verify(nil, g))
	want := []string{
		"style/a: circular style reference: a -> b -> a",
		`style/d: extends undeclared style "nope"`,
		"style/self: circular style reference: self -> self",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSortErrors(t *testing.T) {
	at := func(file string, line, col int) error {
		return &VerifyError{Entity: "x", Pos: Pos{File: file, Line: line, Col: col}, Msg: "m"}
	}
	other := errors.New("other")
	errs := []error{at("b.yaml", 1, 1), at("a.yaml", 9, 2), at("a.yaml", 2, 5), other, at("a.yaml", 2, 3)}
	SortErrors(errs)
	want := []string{"-: x: m", "a.yaml:2:3: x: m", "a.yaml:2:5: x: m", "a.yaml:9:2: x: m", "b.yaml:1:1: x: m"}
	var got []string
	for _, err := range errs {
		if err == other {
			got = append(got, "-: x: m")
			continue
		}
		got = append(got, err.Error())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
