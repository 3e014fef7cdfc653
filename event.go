package unifiedui

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Recognized event types.
const (
	EventClick  = "button.clicked"
	EventChange = "input.changed"
	EventSubmit = "form.submitted"
)

// Event is anything carrying an event type and a data payload. The
// dispatcher reads nothing else.
type Event interface {
	EventType() string
	EventData() map[string]any
}

// Message is the minimal event shape.
type Message struct {
	Type string
	Data map[string]any
}

func (m Message) EventType() string          { return m.Type }
func (m Message) EventData() map[string]any { return m.Data }

// Signal is the richer event envelope produced by transports.
type Signal struct {
	ID     string
	Source string
	Time   time.Time
	Type   string
	Data   map[string]any
}

func (s Signal) EventType() string          { return s.Type }
func (s Signal) EventData() map[string]any { return s.Data }

var signalSeq atomic.Uint64

// NewSignal creates a signal stamped with a process-unique id and the current time.
func NewSignal(typ, source string, data map[string]any) Signal {
	return Signal{
		ID:     fmt.Sprintf("sig-%d", signalSeq.Add(1)),
		Source: source,
		Time:   time.Now(),
		Type:   typ,
		Data:   data,
	}
}

// Click creates a click event for the widget with the given id.
func Click(widgetID string) Message {
	return Message{Type: EventClick, Data: map[string]any{"widget_id": widgetID}}
}

// Change creates a change event carrying the new value of an input.
func Change(inputID string, value any) Message {
	return Message{Type: EventChange, Data: map[string]any{"input_id": inputID, "value": value}}
}

// Submit creates a submit event carrying form data.
func Submit(formID string, data map[string]any) Message {
	return Message{Type: EventSubmit, Data: map[string]any{"form_id": formID, "data": data}}
}

func routeKindFor(typ string) (RouteKind, bool) {
	switch typ {
	case EventClick:
		return RouteClick, true
	case EventChange:
		return RouteChange, true
	case EventSubmit:
		return RouteSubmit, true
	}
	return 0, false
}

// State is an application state value. Dispatch never mutates a State it is
// given; updates produce a new map.
type State map[string]any

// Clone returns a shallow copy of s. A nil state clones to an empty one.
func (s State) Clone() State {
	out := make(State, len(s)+2)
	for k, v := range s {
		out[k] = v
	}
	return out
}

// DeepClone returns a copy of s that shares no maps or slices with it.
func (s State) DeepClone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case State:
		return x.DeepClone()
	case map[string]any:
		return map[string]any(State(x).DeepClone())
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopy(e)
		}
		return out
	}
	return v
}
