package unifiedui

import (
	"fmt"
	"log"
)

// DefaultHandler handles an event no route matched.
type DefaultHandler func(state State, ev Event) State

// Keep is the default handler: state is returned unchanged.
func Keep(state State, _ Event) State { return state }

// source keys in priority order.
var sourceKeys = []string{"widget_id", "button_id", "input_id", "form_id", "id"}

// primary action keys per route kind; "action" is always tried after.
var actionKeys = map[RouteKind]string{
	RouteClick:  "action",
	RouteChange: "input_id",
	RouteSubmit: "form_id",
}

// routingFields are stripped from a submit payload that carries no form data.
var routingFields = map[string]bool{
	"widget_id": true,
	"button_id": true,
	"input_id":  true,
	"form_id":   true,
	"id":        true,
	"action":    true,
	"type":      true,
	"source":    true,
	"timestamp": true,
}

// Dispatcher applies events to state through a route table. It holds no
// state of its own; callers serialize dispatches against shared state.
type Dispatcher struct {
	Routes RouteTable
	Calls  *Calls

	// Fallbacks overrides the unmatched-event handler per event type.
	Fallbacks map[string]DefaultHandler
	// Unrecognized handles events whose type is not a known kind.
	Unrecognized DefaultHandler

	Logger *log.Logger
}

// Dispatch applies ev to state using routes with default fallbacks.
func Dispatch(state State, ev Event, routes RouteTable) State {
	return (&Dispatcher{Routes: routes}).Dispatch(state, ev)
}

// Dispatch returns the state that results from ev. Failures inside external
// calls leave state unchanged. A nil event is unrecognized.
func (d *Dispatcher) Dispatch(state State, ev Event) State {
	var typ string
	if ev != nil {
		typ = ev.EventType()
	}
	kind, ok := routeKindFor(typ)
	if !ok {
		if d.Unrecognized != nil {
			return d.Unrecognized(state, ev)
		}
		return Keep(state, ev)
	}
	r, ok := MatchRoute(d.Routes.Routes(kind), kind, ev.EventData())
	if !ok {
		if fb, ok := d.Fallbacks[typ]; ok && fb != nil {
			return fb(state, ev)
		}
		return Keep(state, ev)
	}
	return d.apply(state, ev, r)
}

// MatchRoute selects the route for an event payload. Routes whose source
// matches a source key of the payload win over routes whose key matches an
// action key.
func MatchRoute(routes []Route, kind RouteKind, data map[string]any) (Route, bool) {
	for _, k := range sourceKeys {
		v, ok := stringField(data, k)
		if !ok {
			continue
		}
		for _, r := range routes {
			if r.Source != "" && r.Source == v {
				return r, true
			}
		}
	}
	keys := []string{actionKeys[kind]}
	if keys[0] != "action" {
		keys = append(keys, "action")
	}
	for _, k := range keys {
		v, ok := stringField(data, k)
		if !ok {
			continue
		}
		for _, r := range routes {
			if r.Key != "" && r.Key == v {
				return r, true
			}
		}
	}
	return Route{}, false
}

func stringField(data map[string]any, key string) (string, bool) {
	switch v := data[key].(type) {
	case string:
		return v, v != ""
	case Action:
		return string(v), v != ""
	case fmt.Stringer:
		s := v.String()
		return s, s != ""
	}
	return "", false
}

func (d *Dispatcher) apply(state State, ev Event, r Route) State {
	if call, ok := r.Handler.(Call); ok {
		switch out := d.Calls.invoke(call, state, ev, r).(type) {
		case accepted:
			return out.state
		case rejected:
			loggerOr(d.Logger).Printf("dispatch: %s route %q: keeping state: %v", r.Kind, r.Key, out.reason)
			return state
		}
		return state
	}

	next := state.Clone()
	for k, v := range r.Payload {
		next[k] = v
	}
	data := ev.EventData()
	switch r.Kind {
	case RouteChange:
		if v, ok := data["value"]; ok && r.Source != "" {
			next[r.Source] = v
		}
	case RouteSubmit:
		for k, v := range formData(data) {
			next[k] = v
		}
	}
	return next
}

// formData returns the submitted fields: the "data" map when present,
// otherwise the payload without routing fields.
func formData(data map[string]any) map[string]any {
	switch fd := data["data"].(type) {
	case map[string]any:
		return fd
	case State:
		return fd
	case map[string]string:
		out := make(map[string]any, len(fd))
		for k, v := range fd {
			out[k] = v
		}
		return out
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		if !routingFields[k] {
			out[k] = v
		}
	}
	return out
}
