package unifiedui

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func webRender(t *testing.T, root Element, opts Options) (*RendererState, string) {
	t.Helper()
	st, err := NewWebAdapter().Render(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	out, err := HTML(st)
	if err != nil {
		t.Fatal(err)
	}
	return st, out
}

func TestWebAdapterRender(t *testing.T) {
	bold := StyleAttrs{FG: colorp(Hex(0x336699)), Text: AttrBold | AttrUnderline, Padding: &Edges{0, 1, 0, 1}}
	root := &Layout{Common: Common{ID: "login_form"}, Kind: KindForm, Spacing: 1, Items: []Element{
		&Label{Text: "Email", For: "email"},
		&TextInput{Common: Common{ID: "email"}, FormID: "login_form", Placeholder: "you@example.com"},
		&TextInput{Common: Common{ID: "pw"}, Password: true},
		&Checkbox{Common: Common{ID: "remember"}, Label: "Remember", Checked: true},
		&Button{Common: Common{ID: "login", Style: &bold}, Label: "Log in", OnClick: Action("login_clicked")},
		&Button{Common: Common{ID: "gone", Hidden: true}, Label: "Gone"},
		&Progress{Common: Common{ID: "p"}, Value: 3, Max: 10},
	}}
	st, out := webRender(t, root, nil)

	if st.Version != 1 || st.Platform != Web || st.Metadata["title"] != "app" {
		t.Errorf("state = %+v", st)
	}
	form := st.Root.(*html.Node)
	if form.Data != "form" {
		t.Errorf("root tag = %q", form.Data)
	}
	if cls, _ := attr(form, "class"); cls != "uui-form" {
		t.Errorf("root class = %q", cls)
	}

	btn, ok := st.Widgets["login"].(*html.Node)
	if !ok {
		t.Fatal("login widget not recorded")
	}
	if v, _ := attr(btn, "data-action"); v != "login_clicked" {
		t.Errorf("data-action = %q", v)
	}
	style, _ := attr(btn, "style")
	for _, decl := range []string{"color:#336699", "font-weight:bold", "text-decoration:underline", "padding:0ch 1ch 0ch 1ch"} {
		if !strings.Contains(style, decl) {
			t.Errorf("style %q missing %q", style, decl)
		}
	}
	if _, ok := st.Widgets["gone"]; ok {
		t.Error("hidden widget recorded")
	}

	pw := st.Widgets["pw"].(*html.Node)
	if v, _ := attr(pw, "type"); v != "password" {
		t.Errorf("password input type = %q", v)
	}

	for _, frag := range []string{
		`<label for="email"`,
		`placeholder="you@example.com"`,
		`data-form-id="login_form"`,
		`checked=""`,
		`>Log in</button>`,
		`<progress value="3" max="10"`,
	} {
		if !strings.Contains(out, frag) {
			t.Errorf("html missing %q:\n%s", frag, out)
		}
	}
	if strings.Contains(out, "Gone") {
		t.Errorf("hidden button rendered:\n%s", out)
	}
}

func TestWebAdapterDocument(t *testing.T) {
	_, out := webRender(t, &Label{Text: "a < b"}, Options{"document": true, "title": "Demo", "class_prefix": "x-"})
	for _, frag := range []string{"<!DOCTYPE html>", "<title>Demo</title>", `class="x-label"`, "a &lt; b"} {
		if !strings.Contains(out, frag) {
			t.Errorf("html missing %q:\n%s", frag, out)
		}
	}
}

func TestWebAdapterCompound(t *testing.T) {
	root := &Layout{Kind: KindVBox, Items: []Element{
		&Table{Common: Common{ID: "users"}, Columns: []Column{{Key: "name", Header: "Name", Sortable: true}},
			Rows: []map[string]any{{"name": "ann"}}},
		&Menu{Common: Common{ID: "m"}, Items: []MenuItem{
			{ID: "copy", Label: "Copy", OnClick: Action("copy")},
			{ID: "cut", Label: "Cut", Hidden: true},
		}},
		&Tabs{Common: Common{ID: "t"}, Active: "b", Tabs: []Tab{
			{ID: "a", Label: "A", Content: &Label{Text: "one"}},
			{ID: "b", Label: "B", Content: &Label{Text: "two"}},
		}},
		&TreeView{Common: Common{ID: "tree"}, RootNodes: []TreeNode{
			{ID: "src", Label: "src", Children: []TreeNode{{ID: "main", Label: "main.go"}}},
		}},
	}}
	st, out := webRender(t, root, nil)

	for _, frag := range []string{
		`data-sortable="true"`,
		`<td>ann</td>`,
		`role="menuitem" id="copy" data-action="copy"`,
		`aria-selected="true" data-tab="b"`,
		`role="tabpanel" data-tab="a" hidden=""`,
		`aria-expanded="false"`,
		`role="group" hidden=""`,
	} {
		if !strings.Contains(out, frag) {
			t.Errorf("html missing %q:\n%s", frag, out)
		}
	}
	if strings.Contains(out, "Cut") {
		t.Errorf("hidden menu item rendered:\n%s", out)
	}
	if _, ok := st.Widgets["copy"]; !ok {
		t.Error("menu item widget not recorded")
	}
}

func TestWebAdapterLifecycle(t *testing.T) {
	a := NewWebAdapter()
	ctx := context.Background()
	st, err := a.Render(ctx, testRoot(), Options{"title": "one"})
	if err != nil {
		t.Fatal(err)
	}
	next, err := a.Update(ctx, testRoot(), st, Options{"class_prefix": "z-"})
	if err != nil {
		t.Fatal(err)
	}
	if next.Version != 2 || next.Metadata["title"] != "one" {
		t.Errorf("updated state = %+v", next)
	}
	if _, err := a.Update(ctx, testRoot(), &RendererState{Platform: Terminal}, nil); err == nil {
		t.Error("expected error updating a terminal state")
	}
	if err := a.Destroy(next); err != nil {
		t.Fatal(err)
	}
	if _, err := HTML(next); err == nil {
		t.Error("expected error serializing a destroyed state")
	}
	if _, err := a.Render(ctx, &Label{Common: Common{Hidden: true}}, nil); err == nil {
		t.Error("expected error for an invisible root")
	}
}
