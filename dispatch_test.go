package unifiedui

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDispatchEndToEnd(t *testing.T) {
	el, err := Build(loginTree(), nil)
	if err != nil {
		t.Fatal(err)
	}
	for name, routes := range map[string]RouteTable{
		"Declarations": ExtractRoutes(loginTree()),
		"Elements":     ExtractElementRoutes(el),
	} {
		t.Run(name, func(t *testing.T) {
			got := Dispatch(State{}, Submit("login_form", map[string]any{"email": "a@b.com"}), routes)
			want := State{"submitted": true, "email": "a@b.com"}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatchStatic(t *testing.T) {
	routes := ExtractRoutes(N("vbox", nil,
		N("button", map[string]any{"id": "inc", "on_click": []any{"bump", map[string]any{"clicked": true}}}),
		N("text_input", map[string]any{"id": "name", "on_change": "name_changed"}),
		N("checkbox", map[string]any{"id": "agree", "on_change": "agree_changed"}),
	))

	t.Run("ClickMergesPayload", func(t *testing.T) {
		before := State{"count": 1}
		got := Dispatch(before, Click("inc"), routes)
		if diff := cmp.Diff(State{"count": 1, "clicked": true}, got); diff != "" {
			t.Errorf("mismatch:\n%s", diff)
		}
		if _, ok := before["clicked"]; ok {
			t.Error("input state was modified")
		}
	})

	t.Run("ClickByAction", func(t *testing.T) {
		ev := Message{Type: EventClick, Data: map[string]any{"action": "bump"}}
		got := Dispatch(State{}, ev, routes)
		if got["clicked"] != true {
			t.Errorf("expected action key match, got %v", got)
		}
	})

	t.Run("ChangeWritesValue", func(t *testing.T) {
		got := Dispatch(State{}, Change("name", "ann"), routes)
		if diff := cmp.Diff(State{"name": "ann"}, got); diff != "" {
			t.Errorf("mismatch:\n%s", diff)
		}
	})

	t.Run("CheckboxChange", func(t *testing.T) {
		got := Dispatch(State{}, Change("agree", true), routes)
		if got["agree"] != true {
			t.Errorf("got %v", got)
		}
	})

	t.Run("SignalEnvelope", func(t *testing.T) {
		got := Dispatch(State{}, NewSignal(EventChange, "web", map[string]any{"input_id": "name", "value": "bo"}), routes)
		if got["name"] != "bo" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("Unmatched", func(t *testing.T) {
		before := State{"x": 1}
		got := Dispatch(before, Click("nobody"), routes)
		if diff := cmp.Diff(before, got); diff != "" {
			t.Errorf("unmatched event changed state:\n%s", diff)
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		got := Dispatch(State{"x": 1}, Message{Type: "window.resized"}, routes)
		if got["x"] != 1 || len(got) != 1 {
			t.Errorf("got %v", got)
		}
	})

	t.Run("NilEvent", func(t *testing.T) {
		got := Dispatch(State{"x": 1}, nil, routes)
		if diff := cmp.Diff(State{"x": 1}, got); diff != "" {
			t.Errorf("nil event changed state:\n%s", diff)
		}
	})

	t.Run("Fallbacks", func(t *testing.T) {
		d := &Dispatcher{
			Routes: routes,
			Fallbacks: map[string]DefaultHandler{
				EventClick: func(s State, ev Event) State {
					n := s.Clone()
					n["missed"] = ev.EventData()["widget_id"]
					return n
				},
			},
			Unrecognized: func(s State, _ Event) State { return State{"odd": true} },
		}
		if got := d.Dispatch(State{}, Click("nobody")); got["missed"] != "nobody" {
			t.Errorf("fallback not used: %v", got)
		}
		if got := d.Dispatch(State{}, Message{Type: "x"}); got["odd"] != true {
			t.Errorf("unrecognized handler not used: %v", got)
		}
	})

	t.Run("SubmitWithoutData", func(t *testing.T) {
		routes := ExtractRoutes(N("text_input", map[string]any{"id": "q", "on_submit": "search"}))
		ev := Message{Type: EventSubmit, Data: map[string]any{"form_id": "q", "term": "go", "timestamp": 1}}
		got := Dispatch(State{}, ev, routes)
		if diff := cmp.Diff(State{"term": "go"}, got); diff != "" {
			t.Errorf("mismatch:\n%s", diff)
		}
	})
}

func TestMatchRoutePriority(t *testing.T) {
	// r's source matches the widget id; r2's key matches the action field.
	r := Route{Kind: RouteClick, Key: "save", Source: "btn", Handler: Action("save")}
	r2 := Route{Kind: RouteClick, Key: "close", Source: "other", Handler: Action("close")}
	data := map[string]any{"widget_id": "btn", "action": "close"}

	for _, order := range [][]Route{{r, r2}, {r2, r}} {
		got, ok := MatchRoute(order, RouteClick, data)
		if !ok || got.Key != "save" {
			t.Errorf("expected source match to win, got %+v", got)
		}
	}

	got, ok := MatchRoute([]Route{r2}, RouteClick, map[string]any{"action": "close"})
	if !ok || got.Key != "close" {
		t.Errorf("expected key match, got %+v, %v", got, ok)
	}

	if _, ok := MatchRoute([]Route{r}, RouteClick, map[string]any{"widget_id": ""}); ok {
		t.Error("empty widget id must not match")
	}
}

func TestDispatchCalls(t *testing.T) {
	routes := ExtractRoutes(N("vbox", nil,
		N("button", map[string]any{"id": "go", "on_click": map[string]any{"call": "svc", "op": "run", "args": []any{"x"}}}),
	))
	before := State{"count": 1}

	run := func(t *testing.T, calls *Calls) State {
		t.Helper()
		return (&Dispatcher{Routes: routes, Calls: calls}).Dispatch(before, Click("go"))
	}
	unchanged := func(t *testing.T, got State) {
		t.Helper()
		if diff := cmp.Diff(State{"count": 1}, got); diff != "" {
			t.Errorf("state changed:\n%s", diff)
		}
	}

	t.Run("Full", func(t *testing.T) {
		calls := NewCalls().Register("svc", "run", FullHandler(func(s State, ev Event, r Route, args ...any) (any, error) {
			n := s.Clone()
			n["route"] = r.Source
			n["arg"] = args[0]
			n["event"] = ev.EventType()
			return n, nil
		}))
		got := run(t, calls)
		want := State{"count": 1, "route": "go", "arg": "x", "event": EventClick}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch:\n%s", diff)
		}
	})

	t.Run("PrefersMostContext", func(t *testing.T) {
		calls := NewCalls().
			Register("svc", "run", ArgsHandler(func(args ...any) (any, error) { return State{"via": "args"}, nil })).
			Register("svc", "run", StateEventHandler(func(s State, ev Event, args ...any) (any, error) { return State{"via": "state"}, nil })).
			Register("svc", "run", EventHandler(func(ev Event, args ...any) (any, error) { return State{"via": "event"}, nil }))
		if got := run(t, calls); got["via"] != "state" {
			t.Errorf("expected the state/event variant, got %v", got)
		}
	})

	t.Run("Replies", func(t *testing.T) {
		for _, reply := range []any{OK(State{"r": 1}), Continue(State{"r": 1}), map[string]any{"r": 1}} {
			calls := NewCalls().Register("svc", "run", ArgsHandler(func(...any) (any, error) { return reply, nil }))
			if got := run(t, calls); got["r"] != 1 {
				t.Errorf("reply %#v not accepted: %v", reply, got)
			}
		}
	})

	rejects := map[string]ArgsHandler{
		"Error":        func(...any) (any, error) { return nil, errors.New("boom") },
		"Panic":        func(...any) (any, error) { panic("boom") },
		"Unrecognized": func(...any) (any, error) { return 42, nil },
		"BadTag":       func(...any) (any, error) { return Reply{Tag: "halt", State: State{"r": 1}}, nil },
		"NilState":     func(...any) (any, error) { return State(nil), nil },
	}
	for name, fn := range rejects {
		t.Run(name, func(t *testing.T) {
			unchanged(t, run(t, NewCalls().Register("svc", "run", fn)))
		})
	}

	scribbles := map[string]StateEventHandler{
		"WriteThenPanic": func(s State, _ Event, _ ...any) (any, error) {
			s["count"] = 99
			s["nested"].(map[string]any)["deep"] = true
			panic("boom")
		},
		"WriteThenError": func(s State, _ Event, _ ...any) (any, error) {
			s["count"] = 99
			s["nested"].(map[string]any)["deep"] = true
			return nil, errors.New("boom")
		},
		"WriteThenBadResult": func(s State, _ Event, _ ...any) (any, error) {
			s["count"] = 99
			s["nested"].(map[string]any)["deep"] = true
			return 42, nil
		},
	}
	for name, fn := range scribbles {
		t.Run(name, func(t *testing.T) {
			in := State{"count": 1, "nested": map[string]any{"a": 1}}
			d := &Dispatcher{Routes: routes, Calls: NewCalls().Register("svc", "run", fn)}
			got := d.Dispatch(in, Click("go"))
			want := State{"count": 1, "nested": map[string]any{"a": 1}}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("returned state changed (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want, in); diff != "" {
				t.Errorf("input state changed (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("MissingOperation", func(t *testing.T) {
		unchanged(t, run(t, NewCalls().Register("svc", "other", ArgsHandler(func(...any) (any, error) { return State{}, nil }))))
		unchanged(t, run(t, nil))
	})
}

func TestCallsInvokeRejections(t *testing.T) {
	calls := NewCalls()
	out := calls.invoke(Call{Target: "x", Op: "y"}, State{}, Click("b"), Route{})
	rej, ok := out.(rejected)
	if !ok || !errors.Is(rej.reason, ErrNoSuchOperation) {
		t.Errorf("expected ErrNoSuchOperation, got %#v", out)
	}
}
