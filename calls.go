package unifiedui

import (
	"errors"
	"fmt"
	"sync"
)

// CallFunc is an external operation a Call handler can reach. Each variant
// fixes the arguments it receives; fixed Call arguments are appended.
type CallFunc interface {
	arity() int
}

// FullHandler receives the state, the event and the matched route.
type FullHandler func(state State, ev Event, r Route, args ...any) (any, error)

// StateEventHandler receives the state and the event.
type StateEventHandler func(state State, ev Event, args ...any) (any, error)

// EventHandler receives only the event.
type EventHandler func(ev Event, args ...any) (any, error)

// ArgsHandler receives only the fixed arguments.
type ArgsHandler func(args ...any) (any, error)

func (FullHandler) arity() int       { return 3 }
func (StateEventHandler) arity() int { return 2 }
func (EventHandler) arity() int      { return 1 }
func (ArgsHandler) arity() int       { return 0 }

// Reply wraps a new state with a tag. Tags "ok" and "continue" are accepted.
type Reply struct {
	Tag   string
	State State
}

// OK wraps s in an accepted reply.
func OK(s State) Reply { return Reply{Tag: "ok", State: s} }

// Continue wraps s in an accepted reply.
func Continue(s State) Reply { return Reply{Tag: "continue", State: s} }

// Calls is a registry of external operations keyed by target and op. An op
// may hold one function per variant; invocation prefers the variant that
// receives the most context.
type Calls struct {
	mu  sync.RWMutex
	ops map[string]*[4]CallFunc
}

// NewCalls creates an empty registry.
func NewCalls() *Calls {
	return &Calls{ops: make(map[string]*[4]CallFunc)}
}

func callKey(target, op string) string { return target + "\x00" + op }

// Register adds fn under target and op, replacing a previous function of
// the same variant.
func (c *Calls) Register(target, op string, fn CallFunc) *Calls {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := callKey(target, op)
	slots, ok := c.ops[k]
	if !ok {
		slots = &[4]CallFunc{}
		c.ops[k] = slots
	}
	slots[fn.arity()] = fn
	return c
}

// Lookup returns the function invoked for target and op.
func (c *Calls) Lookup(target, op string) (CallFunc, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	slots, ok := c.ops[callKey(target, op)]
	if !ok {
		return nil, false
	}
	for i := len(slots) - 1; i >= 0; i-- {
		if slots[i] != nil {
			return slots[i], true
		}
	}
	return nil, false
}

// callOutcome is the result of invoking a Call: accepted or rejected.
type callOutcome interface {
	outcome()
}

type accepted struct {
	state State
}

type rejected struct {
	reason error
}

func (accepted) outcome() {}
func (rejected) outcome() {}

// ErrNoSuchOperation reports a Call whose target or op is not registered.
var ErrNoSuchOperation = errors.New("no such operation")

// invoke runs the call and classifies the result. Errors, panics and
// results that are not state-shaped are rejected. The handler works on a
// deep copy, so state is untouched whatever the handler does.
func (c *Calls) invoke(call Call, state State, ev Event, r Route) (out callOutcome) {
	fn, ok := c.Lookup(call.Target, call.Op)
	if !ok {
		return rejected{fmt.Errorf("%s: %w", call, ErrNoSuchOperation)}
	}
	defer func() {
		if p := recover(); p != nil {
			out = rejected{fmt.Errorf("%s: panic: %v", call, p)}
		}
	}()

	var (
		res any
		err error
	)
	state = state.DeepClone()
	switch f := fn.(type) {
	case FullHandler:
		res, err = f(state, ev, r, call.Args...)
	case StateEventHandler:
		res, err = f(state, ev, call.Args...)
	case EventHandler:
		res, err = f(ev, call.Args...)
	case ArgsHandler:
		res, err = f(call.Args...)
	default:
		return rejected{fmt.Errorf("%s: unsupported handler %T", call, fn)}
	}
	if err != nil {
		return rejected{fmt.Errorf("%s: %w", call, err)}
	}
	return classify(call, res)
}

func classify(call Call, res any) callOutcome {
	switch v := res.(type) {
	case State:
		if v != nil {
			return accepted{v}
		}
	case map[string]any:
		if v != nil {
			return accepted{State(v)}
		}
	case Reply:
		if (v.Tag == "ok" || v.Tag == "continue") && v.State != nil {
			return accepted{v.State}
		}
	}
	return rejected{fmt.Errorf("%s: unrecognized result %T", call, res)}
}
