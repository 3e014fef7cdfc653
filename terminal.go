package unifiedui

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TermWidget is the terminal reference kept for each identified element.
type TermWidget struct {
	Element Element
	View    string
}

// TerminalAdapter renders IUR trees into styled text frames.
//
// Options:
//
//	width  int     frame width in cells (default: terminal width)
//	height int     maximum frame height in lines
//	focus  string  id of the element drawn as focused
//	border bool    draw a border around the frame
type TerminalAdapter struct {
	Renderer *lipgloss.Renderer
	Logger   *log.Logger
}

// NewTerminalAdapter creates an adapter whose color profile follows w.
// Pass nil to use os.Stdout.
func NewTerminalAdapter(w io.Writer) *TerminalAdapter {
	if w == nil {
		w = os.Stdout
	}
	return &TerminalAdapter{Renderer: lipgloss.NewRenderer(w)}
}

func (t *TerminalAdapter) renderer() *lipgloss.Renderer {
	if t.Renderer == nil {
		return lipgloss.DefaultRenderer()
	}
	return t.Renderer
}

// Render draws root into a new frame.
func (t *TerminalAdapter) Render(ctx context.Context, root Element, opts Options) (*RendererState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("terminal: nil root")
	}
	st := &RendererState{Platform: Terminal, Config: opts}
	t.draw(st, root, opts)
	st.Version = 1
	loggerOr(t.Logger).Printf("terminal: rendered %d widgets, version %d", len(st.Widgets), st.Version)
	return st, nil
}

// Update redraws root into st's frame and bumps its version.
func (t *TerminalAdapter) Update(ctx context.Context, root Element, st *RendererState, opts Options) (*RendererState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if st == nil || st.Platform != Terminal {
		return nil, fmt.Errorf("terminal: update of foreign state")
	}
	next := &RendererState{
		Platform: Terminal,
		Config:   Options(MergeStates(st.Config, opts)),
		Version:  st.Version + 1,
	}
	t.draw(next, root, next.Config)
	return next, nil
}

// Destroy releases the frame.
func (t *TerminalAdapter) Destroy(st *RendererState) error {
	if st == nil {
		return nil
	}
	st.Root = nil
	st.Widgets = nil
	return nil
}

// Frame returns the rendered text held by a terminal state.
func Frame(st *RendererState) string {
	if st == nil {
		return ""
	}
	s, _ := st.Root.(string)
	return s
}

func (t *TerminalAdapter) draw(st *RendererState, root Element, opts Options) {
	d := &termDraw{
		r:       t.renderer(),
		focus:   opts.String("focus", ""),
		widgets: make(map[string]any),
	}
	frame := d.element(root)
	width := opts.Int("width", 0)
	if width <= 0 {
		width = TerminalSize().Width
	}
	box := d.r.NewStyle().MaxWidth(width)
	if h := opts.Int("height", 0); h > 0 {
		box = box.MaxHeight(h)
	}
	if opts.Bool("border", false) {
		box = box.Border(lipgloss.RoundedBorder())
	}
	st.Root = box.Render(frame)
	st.Widgets = d.widgets
	st.Metadata = map[string]any{
		"width":   width,
		"lines":   lipgloss.Height(st.Root.(string)),
		"focus":   d.focus,
		"widgets": len(d.widgets),
	}
}

type termDraw struct {
	r       *lipgloss.Renderer
	focus   string
	widgets map[string]any
}

// lipColor converts a Color to a lipgloss color.
func lipColor(c Color) lipgloss.TerminalColor {
	switch c.Mode {
	case Color16, Color256:
		return lipgloss.Color(strconv.Itoa(int(c.Index)))
	case ColorRGB:
		return lipgloss.Color(c.HexString())
	}
	return lipgloss.NoColor{}
}

// style converts resolved style attributes to a lipgloss style.
func (d *termDraw) style(sa *StyleAttrs) lipgloss.Style {
	s := d.r.NewStyle()
	if sa == nil {
		return s
	}
	if sa.FG != nil {
		s = s.Foreground(lipColor(*sa.FG))
	}
	if sa.BG != nil {
		s = s.Background(lipColor(*sa.BG))
	}
	a := sa.Text
	s = s.Bold(a.Has(AttrBold)).
		Faint(a.Has(AttrDim)).
		Italic(a.Has(AttrItalic)).
		Underline(a.Has(AttrUnderline)).
		Blink(a.Has(AttrBlink)).
		Reverse(a.Has(AttrInverse)).
		Strikethrough(a.Has(AttrStrikethrough))
	if p := sa.Padding; p != nil {
		s = s.Padding(p.Top, p.Right, p.Bottom, p.Left)
	}
	if m := sa.Margin; m != nil {
		s = s.Margin(m.Top, m.Right, m.Bottom, m.Left)
	}
	if sa.Width != nil {
		s = s.Width(*sa.Width)
	}
	if sa.Height != nil {
		s = s.Height(*sa.Height)
	}
	if sa.Align != nil {
		s = s.Align(position(*sa.Align))
	}
	return s
}

func position(a Align) lipgloss.Position {
	switch a {
	case AlignCenter:
		return lipgloss.Center
	case AlignEnd:
		return lipgloss.Right
	}
	return lipgloss.Left
}

func (d *termDraw) focused(id string) bool {
	return id != "" && id == d.focus
}

func (d *termDraw) element(el Element) string {
	m := el.Meta()
	if !m.Visible {
		return ""
	}
	var view string
	switch e := el.(type) {
	case *Layout:
		view = d.layout(e)
	case *Label:
		view = d.style(e.Style).Render(e.Text)
	case *Button:
		view = d.button(e)
	case *TextInput:
		view = d.textInput(e)
	case *Checkbox:
		mark := "[ ]"
		if e.Checked {
			mark = "[x]"
		}
		view = d.mark(e.ID, d.style(e.Style)).Render(mark + " " + e.Label)
	case *Progress:
		view = d.style(e.Style).Render(progressBar(e.Value, e.Max, 20))
	case *Table:
		view = d.table(e)
	case *Menu:
		view = d.menu(e)
	case *Tabs:
		view = d.tabs(e)
	case *TreeView:
		view = d.tree(e)
	}
	if m.ID != "" {
		d.widgets[m.ID] = &TermWidget{Element: el, View: view}
	}
	return view
}

func (d *termDraw) mark(id string, s lipgloss.Style) lipgloss.Style {
	if d.focused(id) {
		return s.Reverse(true)
	}
	return s
}

func (d *termDraw) layout(l *Layout) string {
	var parts []string
	for _, c := range l.Items {
		if !c.Meta().Visible {
			continue
		}
		parts = append(parts, d.element(c))
	}
	var body string
	if l.Kind == KindHBox {
		gap := strings.Repeat(" ", l.Spacing)
		spaced := make([]string, 0, 2*len(parts))
		for i, p := range parts {
			if i > 0 && gap != "" {
				spaced = append(spaced, gap)
			}
			spaced = append(spaced, p)
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
	} else {
		spaced := make([]string, 0, 2*len(parts))
		for i, p := range parts {
			for j := 0; i > 0 && j < l.Spacing; j++ {
				spaced = append(spaced, "")
			}
			spaced = append(spaced, p)
		}
		body = lipgloss.JoinVertical(position(l.Align), spaced...)
	}
	s := d.style(l.Style)
	if l.Padding != (Edges{}) {
		s = s.Padding(l.Padding.Top, l.Padding.Right, l.Padding.Bottom, l.Padding.Left)
	}
	return s.Render(body)
}

func (d *termDraw) button(b *Button) string {
	s := d.mark(b.ID, d.style(b.Style))
	if b.Disabled {
		s = s.Faint(true)
	}
	return s.Render("[ " + b.Label + " ]")
}

func (d *termDraw) textInput(in *TextInput) string {
	const width = 20
	text := in.Value
	s := d.style(in.Style)
	if in.Password {
		text = strings.Repeat("*", runewidth.StringWidth(text))
	}
	if text == "" {
		text = in.Placeholder
		s = s.Faint(true)
	}
	text = runewidth.FillRight(runewidth.Truncate(text, width, "…"), width)
	return d.mark(in.ID, s).Render("[" + text + "]")
}

func progressBar(value, max, width int) string {
	if max <= 0 {
		max = 100
	}
	if value < 0 {
		value = 0
	}
	if value > max {
		value = max
	}
	filled := value * width / max
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) +
		fmt.Sprintf(" %3d%%", value*100/max)
}

func cell(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (d *termDraw) table(t *Table) string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
		if c.Sortable {
			headers[i] += "↕"
		}
	}
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = c.Width
		if widths[i] > 0 {
			continue
		}
		widths[i] = runewidth.StringWidth(headers[i])
		for _, row := range t.Rows {
			if w := runewidth.StringWidth(cell(row[c.Key])); w > widths[i] {
				widths[i] = w
			}
		}
	}
	line := func(vals []string) string {
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = runewidth.FillRight(runewidth.Truncate(v, widths[i], "…"), widths[i])
		}
		return strings.Join(out, " │ ")
	}

	hs := d.r.NewStyle().Bold(true)
	if t.HeaderStyle != nil {
		hs = d.style(t.HeaderStyle)
	}
	lines := []string{hs.Render(line(headers))}
	for _, row := range t.Rows {
		vals := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			vals[i] = cell(row[c.Key])
		}
		lines = append(lines, line(vals))
	}
	return d.mark(t.ID, d.style(t.Style)).Render(strings.Join(lines, "\n"))
}

func (d *termDraw) menu(m *Menu) string {
	var lines []string
	var walk func(items []MenuItem, depth int)
	walk = func(items []MenuItem, depth int) {
		for _, it := range items {
			if it.Hidden {
				continue
			}
			label := strings.Repeat("  ", depth) + it.Label
			if len(it.Items) > 0 {
				label += " ›"
			}
			s := d.mark(it.ID, d.r.NewStyle())
			if it.Disabled {
				s = s.Faint(true)
			}
			lines = append(lines, s.Render(label))
			walk(it.Items, depth+1)
		}
	}
	walk(m.Items, 0)
	s := d.style(m.Style)
	if m.Context {
		s = s.Border(lipgloss.NormalBorder())
	}
	return s.Render(strings.Join(lines, "\n"))
}

func (d *termDraw) tabs(t *Tabs) string {
	active, ok := t.ActiveTab()
	heads := make([]string, len(t.Tabs))
	for i, tab := range t.Tabs {
		if ok && tab.ID == active.ID {
			heads[i] = d.r.NewStyle().Bold(true).Underline(true).Render(tab.Label)
		} else {
			heads[i] = tab.Label
		}
	}
	header := d.mark(t.ID, d.r.NewStyle()).Render(strings.Join(heads, " │ "))
	body := ""
	if ok && active.Content != nil {
		body = d.element(active.Content)
	}
	return d.style(t.Style).Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

func (d *termDraw) tree(t *TreeView) string {
	var lines []string
	var walk func(nodes []TreeNode, depth int)
	walk = func(nodes []TreeNode, depth int) {
		for _, n := range nodes {
			marker := "  "
			if len(n.Children) > 0 {
				marker = "▸ "
				if n.Expanded {
					marker = "▾ "
				}
			}
			lines = append(lines, d.mark(n.ID, d.r.NewStyle()).Render(strings.Repeat("  ", depth)+marker+n.Label))
			if n.Expanded {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(t.RootNodes, 0)
	return d.style(t.Style).Render(strings.Join(lines, "\n"))
}
