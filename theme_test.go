package unifiedui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestThemeStyles(t *testing.T) {
	for name, theme := range Themes {
		t.Run(name, func(t *testing.T) {
			g := mustGraph(t, theme.Styles()...)
			if diff := cmp.Diff([]string{"base", "muted", "accent", "error", "border"}, g.Names()); diff != "" {
				t.Errorf("names mismatch:\n%s", diff)
			}
			accent, err := g.Resolve("accent", StyleAttrs{})
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(theme.Base.Merge(theme.Accent), accent); diff != "" {
				t.Errorf("accent mismatch:\n%s", diff)
			}
		})
	}
}

func TestWithTheme(t *testing.T) {
	defs := WithTheme(ThemeDark, []StyleDef{
		{Name: "accent", Attrs: StyleAttrs{Text: AttrItalic}},
		{Name: "title", Extends: "accent", Attrs: StyleAttrs{Text: AttrBold}},
	})
	g := mustGraph(t, defs...)
	if diff := cmp.Diff([]string{"base", "muted", "error", "border", "accent", "title"}, g.Names()); diff != "" {
		t.Errorf("names mismatch:\n%s", diff)
	}
	got, err := g.Resolve("title", StyleAttrs{})
	if err != nil {
		t.Fatal(err)
	}
	if got.FG != nil || got.Text != AttrItalic|AttrBold {
		t.Errorf("title = %+v, want the declared accent to replace the theme one", got)
	}
	muted, _ := g.Resolve("muted", StyleAttrs{})
	if muted.FG == nil || !muted.FG.Equal(BrightBlack) {
		t.Errorf("muted = %+v", muted)
	}
}
