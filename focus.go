package unifiedui

// Focusable reports whether an element can take keyboard focus. Disabled
// buttons and elements without an id are skipped.
func Focusable(el Element) bool {
	if el.Meta().ID == "" {
		return false
	}
	switch e := el.(type) {
	case *Button:
		return !e.Disabled
	case *TextInput, *Checkbox:
		return true
	}
	return false
}

// FocusRing cycles keyboard focus over the focusable elements of a tree,
// in document order.
//
// usage:
//
//	ring := NewFocusRing(root)
//	ring.Next()
//	id := ring.Current()
type FocusRing struct {
	ids      []string
	current  int
	onChange func(id string)
}

// NewFocusRing collects the visible focusable elements of root. The first
// one has focus.
func NewFocusRing(root Element) *FocusRing {
	f := &FocusRing{}
	f.Reset(root)
	return f
}

// Reset rebuilds the ring for a new tree, keeping focus on the same id when
// it still exists.
func (f *FocusRing) Reset(root Element) {
	prev := f.Current()
	f.ids = f.ids[:0]
	f.current = 0
	if root == nil {
		return
	}
	Walk(root, func(el Element) bool {
		if Focusable(el) {
			f.ids = append(f.ids, el.Meta().ID)
		}
		return true
	})
	for i, id := range f.ids {
		if id == prev {
			f.current = i
		}
	}
}

// OnChange sets a callback that fires when focus moves.
func (f *FocusRing) OnChange(fn func(id string)) *FocusRing {
	f.onChange = fn
	return f
}

// Next moves focus forward, wrapping at the end.
func (f *FocusRing) Next() { f.move(1) }

// Prev moves focus backward, wrapping at the start.
func (f *FocusRing) Prev() { f.move(-1) }

func (f *FocusRing) move(delta int) {
	if len(f.ids) <= 1 {
		return
	}
	f.current = (f.current + len(f.ids) + delta) % len(f.ids)
	if f.onChange != nil {
		f.onChange(f.ids[f.current])
	}
}

// Focus moves focus to id. Unknown ids are ignored.
func (f *FocusRing) Focus(id string) bool {
	for i, x := range f.ids {
		if x == id {
			if i != f.current {
				f.current = i
				if f.onChange != nil {
					f.onChange(id)
				}
			}
			return true
		}
	}
	return false
}

// Current returns the focused id, or "" when nothing can take focus.
func (f *FocusRing) Current() string {
	if f == nil || len(f.ids) == 0 {
		return ""
	}
	return f.ids[f.current]
}

// IDs returns the focus order.
func (f *FocusRing) IDs() []string {
	return append([]string(nil), f.ids...)
}
