package unifiedui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Program is an interactive terminal session over an IUR tree. Keys are
// turned into events, events go through the dispatcher, and the terminal
// adapter draws every frame.
//
// Keys:
//
//	tab, shift+tab   move focus
//	enter            click the focused button or submit the focused input
//	space            toggle the focused checkbox
//	runes, backspace edit the focused input
//	esc, ctrl+c      quit (q also quits unless an input has focus)
//
// Typed text and toggles are buffered in the session and drawn over Root;
// the tree itself is never modified. After a Rebuild a buffered value is
// kept while the rebuilt element declares the same value it had when
// editing started, and dropped once the tree declares a different one.
type Program struct {
	Root       Element
	Dispatcher *Dispatcher
	State      State
	Adapter    *TerminalAdapter
	Options    Options

	// Rebuild, when set, derives a new tree from the state after every event.
	Rebuild func(State) (Element, error)

	focus  *FocusRing
	edits  map[string]edit
	frame  *RendererState
	width  int
	err    error
	events int
}

// NewProgram creates a session over root. Routes are taken from root.
func NewProgram(root Element, calls *Calls, state State) *Program {
	if state == nil {
		state = State{}
	}
	p := &Program{
		Root:       root,
		Dispatcher: &Dispatcher{Routes: ExtractElementRoutes(root), Calls: calls},
		State:      state,
		Adapter:    &TerminalAdapter{},
	}
	p.focus = NewFocusRing(root)
	return p
}

// Focused returns the id of the focused element.
func (p *Program) Focused() string { return p.focus.Current() }

// Err returns the last render error.
func (p *Program) Err() error { return p.err }

// Events returns the number of events dispatched so far.
func (p *Program) Events() int { return p.events }

// Init implements tea.Model.
func (p *Program) Init() tea.Cmd {
	p.redraw()
	return nil
}

// Update implements tea.Model.
func (p *Program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
	case tea.KeyMsg:
		if cmd := p.key(msg); cmd != nil {
			return p, cmd
		}
	case Event:
		p.dispatch(msg)
	}
	p.redraw()
	return p, nil
}

// View implements tea.Model.
func (p *Program) View() string {
	if p.frame == nil {
		p.redraw()
	}
	return Frame(p.frame)
}

func (p *Program) key(k tea.KeyMsg) tea.Cmd {
	el := Find(p.Root, p.focus.Current())
	switch k.String() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "tab":
		p.focus.Next()
		return nil
	case "shift+tab":
		p.focus.Prev()
		return nil
	}

	switch e := el.(type) {
	case *Button:
		switch k.String() {
		case "enter", " ":
			p.dispatch(Click(e.ID))
		case "q":
			return tea.Quit
		}
	case *Checkbox:
		switch k.String() {
		case " ", "enter":
			checked := !p.checked(e)
			p.buffer(e.ID, e.Checked, checked)
			p.dispatch(Change(e.ID, checked))
		case "q":
			return tea.Quit
		}
	case *TextInput:
		switch k.Type {
		case tea.KeyEnter:
			p.dispatch(Submit(e.SubmitKey(), p.formValues(e.SubmitKey())))
		case tea.KeyBackspace:
			if r := []rune(p.text(e)); len(r) > 0 {
				p.typed(e, string(r[:len(r)-1]))
			}
		case tea.KeyRunes:
			p.typed(e, p.text(e)+string(k.Runes))
		case tea.KeySpace:
			p.typed(e, p.text(e)+" ")
		}
	default:
		if k.String() == "q" {
			return tea.Quit
		}
	}
	return nil
}

// edit is a buffered input value. base is the value the tree declared when
// the buffer was opened.
type edit struct {
	base  any
	value any
}

func (p *Program) buffer(id string, base, value any) {
	if p.edits == nil {
		p.edits = make(map[string]edit)
	}
	ed, ok := p.edits[id]
	if !ok {
		ed.base = base
	}
	ed.value = value
	p.edits[id] = ed
}

func (p *Program) typed(e *TextInput, value string) {
	p.buffer(e.ID, e.Value, value)
	p.dispatch(Change(e.ID, value))
}

// text returns the current value of an input, buffered or declared.
func (p *Program) text(e *TextInput) string {
	if s, ok := p.edits[e.ID].value.(string); ok {
		return s
	}
	return e.Value
}

func (p *Program) checked(e *Checkbox) bool {
	if b, ok := p.edits[e.ID].value.(bool); ok {
		return b
	}
	return e.Checked
}

// declared returns the value an input element carries in the tree.
func declared(el Element) (any, bool) {
	switch e := el.(type) {
	case *TextInput:
		return e.Value, true
	case *Checkbox:
		return e.Checked, true
	}
	return nil, false
}

// overlay returns el with buffered values applied. Containers holding an
// edited input are copied; everything else is shared with el.
func overlay(el Element, edits map[string]edit) Element {
	switch e := el.(type) {
	case *TextInput:
		if s, ok := edits[e.ID].value.(string); ok {
			c := *e
			c.Value = s
			return &c
		}
	case *Checkbox:
		if b, ok := edits[e.ID].value.(bool); ok {
			c := *e
			c.Checked = b
			return &c
		}
	case *Layout:
		c := *e
		c.Items = make([]Element, len(e.Items))
		for i, it := range e.Items {
			c.Items[i] = overlay(it, edits)
		}
		return &c
	case *Tabs:
		c := *e
		c.Tabs = make([]Tab, len(e.Tabs))
		for i, tab := range e.Tabs {
			if tab.Content != nil {
				tab.Content = overlay(tab.Content, edits)
			}
			c.Tabs[i] = tab
		}
		return &c
	}
	return el
}

// formValues collects the values of every input that submits to formID.
func (p *Program) formValues(formID string) map[string]any {
	data := make(map[string]any)
	Walk(p.Root, func(el Element) bool {
		if in, ok := el.(*TextInput); ok && in.SubmitKey() == formID {
			data[in.ID] = p.text(in)
		}
		return true
	})
	return data
}

func (p *Program) dispatch(ev Event) {
	p.events++
	p.State = p.Dispatcher.Dispatch(p.State, ev)
	if p.Rebuild == nil {
		return
	}
	root, err := p.Rebuild(p.State)
	if err != nil {
		p.err = err
		return
	}
	p.Root = root
	for id, ed := range p.edits {
		if v, ok := declared(Find(root, id)); !ok || v != ed.base {
			delete(p.edits, id)
		}
	}
	p.Dispatcher.Routes = ExtractElementRoutes(root)
	p.focus.Reset(root)
}

func (p *Program) redraw() {
	opts := Options(MergeStates(p.Options, map[string]any{"focus": p.focus.Current()}))
	if p.width > 0 {
		opts["width"] = p.width
	}
	root := p.Root
	if len(p.edits) > 0 {
		root = overlay(root, p.edits)
	}
	var (
		st  *RendererState
		err error
	)
	if p.frame == nil {
		st, err = p.Adapter.Render(context.Background(), root, opts)
	} else {
		st, err = p.Adapter.Update(context.Background(), root, p.frame, opts)
	}
	if err != nil {
		p.err = err
		return
	}
	p.frame = st
}

// Run drives the session until the user quits. A nil in or out uses the
// process terminal.
func (p *Program) Run(ctx context.Context, in io.Reader, out io.Writer) (State, error) {
	var opts []tea.ProgramOption
	opts = append(opts, tea.WithContext(ctx))
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	if _, err := tea.NewProgram(p, opts...).Run(); err != nil {
		return p.State, err
	}
	return p.State, nil
}
