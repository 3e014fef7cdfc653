package unifiedui

import "fmt"

// Handler is an interaction binding declared on an element. The set of
// implementations is closed: Action, ActionPayload, Call and UnknownHandler.
type Handler interface {
	handlerKind() HandlerKind
}

// HandlerKind classifies a handler for routing.
type HandlerKind uint8

const (
	HandlerUnknown HandlerKind = iota
	HandlerStatic
	HandlerCall
)

func (k HandlerKind) String() string {
	switch k {
	case HandlerStatic:
		return "static"
	case HandlerCall:
		return "call"
	}
	return "unknown"
}

// Action is a bare action name.
type Action string

func (Action) handlerKind() HandlerKind { return HandlerStatic }

// ActionPayload is an action name with a static payload merged into state.
type ActionPayload struct {
	Action  string
	Payload map[string]any
}

func (ActionPayload) handlerKind() HandlerKind { return HandlerStatic }

// Call names an operation on an external target, with fixed arguments
// appended to every invocation.
type Call struct {
	Target string
	Op     string
	Args   []any
}

func (Call) handlerKind() HandlerKind { return HandlerCall }

func (c Call) String() string {
	return fmt.Sprintf("%s.%s/%d", c.Target, c.Op, len(c.Args))
}

// UnknownHandler wraps a binding value that matches no known shape.
type UnknownHandler struct {
	Raw any
}

func (UnknownHandler) handlerKind() HandlerKind { return HandlerUnknown }

// KindOf returns the kind of h; nil is unknown.
func KindOf(h Handler) HandlerKind {
	if h == nil {
		return HandlerUnknown
	}
	return h.handlerKind()
}

// ParseHandler converts a raw binding value into a Handler. It accepts typed
// handlers, action names, [action, payload] lists, and maps with "action"
// (plus optional "payload") or "call"/"target" and "op" keys.
func ParseHandler(v any) Handler {
	switch h := v.(type) {
	case nil:
		return nil
	case Handler:
		return h
	case string:
		if h == "" {
			return UnknownHandler{Raw: v}
		}
		return Action(h)
	case []any:
		if len(h) == 2 {
			name, ok := h[0].(string)
			payload, pok := h[1].(map[string]any)
			if ok && pok && name != "" {
				return ActionPayload{Action: name, Payload: payload}
			}
		}
	case map[string]any:
		if target, ok := firstString(h, "call", "target"); ok {
			op, ok := h["op"].(string)
			if !ok || op == "" {
				return UnknownHandler{Raw: v}
			}
			var args []any
			if a, ok := h["args"].([]any); ok {
				args = a
			}
			return Call{Target: target, Op: op, Args: args}
		}
		if name, ok := h["action"].(string); ok && name != "" {
			payload, _ := h["payload"].(map[string]any)
			if payload == nil {
				return Action(name)
			}
			return ActionPayload{Action: name, Payload: payload}
		}
	}
	return UnknownHandler{Raw: v}
}

func firstString(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// actionName returns the action name of a static handler, or "".
func actionName(h Handler) string {
	switch x := h.(type) {
	case Action:
		return string(x)
	case ActionPayload:
		return x.Action
	}
	return ""
}

// staticPayload returns the payload of a static handler, or nil.
func staticPayload(h Handler) map[string]any {
	if p, ok := h.(ActionPayload); ok {
		return p.Payload
	}
	return nil
}
