package unifiedui

// Theme is a base set of named styles that declarations can extend.
type Theme struct {
	Base   StyleAttrs // default text
	Muted  StyleAttrs // de-emphasized text
	Accent StyleAttrs // highlighted text
	Error  StyleAttrs // error messages
	Border StyleAttrs // borders and dividers
}

func fg(c Color) *Color { return &c }

// ThemeDark is light text for dark backgrounds.
var ThemeDark = Theme{
	Base:   StyleAttrs{FG: fg(White)},
	Muted:  StyleAttrs{FG: fg(BrightBlack)},
	Accent: StyleAttrs{FG: fg(BrightCyan)},
	Error:  StyleAttrs{FG: fg(BrightRed)},
	Border: StyleAttrs{FG: fg(BrightBlack)},
}

// ThemeLight is dark text for light backgrounds.
var ThemeLight = Theme{
	Base:   StyleAttrs{FG: fg(Black)},
	Muted:  StyleAttrs{FG: fg(BrightBlack)},
	Accent: StyleAttrs{FG: fg(Blue)},
	Error:  StyleAttrs{FG: fg(Red)},
	Border: StyleAttrs{FG: fg(White)},
}

// ThemeMonochrome uses text attributes only.
var ThemeMonochrome = Theme{
	Muted:  StyleAttrs{Text: AttrDim},
	Accent: StyleAttrs{Text: AttrBold},
	Error:  StyleAttrs{Text: AttrBold | AttrUnderline},
	Border: StyleAttrs{Text: AttrDim},
}

// Themes maps theme names accepted in configuration.
var Themes = map[string]Theme{
	"dark":       ThemeDark,
	"light":      ThemeLight,
	"monochrome": ThemeMonochrome,
}

// Styles returns the theme as style declarations named base, muted,
// accent, error and border. Every style but base extends base.
func (t Theme) Styles() []StyleDef {
	return []StyleDef{
		{Name: "base", Attrs: t.Base},
		{Name: "muted", Extends: "base", Attrs: t.Muted},
		{Name: "accent", Extends: "base", Attrs: t.Accent},
		{Name: "error", Extends: "base", Attrs: t.Error},
		{Name: "border", Extends: "base", Attrs: t.Border},
	}
}

// WithTheme puts the theme styles under the declared ones. A declared style
// replaces the theme style of the same name.
func WithTheme(t Theme, defs []StyleDef) []StyleDef {
	declared := make(map[string]bool, len(defs))
	for _, d := range defs {
		declared[d.Name] = true
	}
	var out []StyleDef
	for _, d := range t.Styles() {
		if !declared[d.Name] {
			out = append(out, d)
		}
	}
	return append(out, defs...)
}
