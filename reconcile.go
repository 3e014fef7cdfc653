package unifiedui

import "sync"

// MergeStates folds states left to right. Nested maps merge key by key;
// any other value is replaced by the later one. Inputs are not modified.
func MergeStates(states ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, s := range states {
		out = deepMerge(out, s)
	}
	return out
}

// ConflictResolution resolves two versions of a state: the newer one wins.
func ConflictResolution(_, newer map[string]any) map[string]any {
	return newer
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case State:
		return m, true
	}
	return nil, false
}

func deepMerge(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		if om, ok := asMap(v); ok {
			if bm, ok := asMap(out[k]); ok {
				out[k] = deepMerge(bm, om)
				continue
			}
			out[k] = deepMerge(nil, om)
			continue
		}
		out[k] = v
	}
	return out
}

// ReconcileStates merges the metadata of every successful renderer state,
// in platform order.
func ReconcileStates(results Results) map[string]any {
	ps := results.Succeeded()
	metas := make([]map[string]any, 0, len(ps))
	for _, p := range ps {
		if st := results[p].State; st != nil {
			metas = append(metas, st.Metadata)
		}
	}
	return MergeStates(metas...)
}

// StateChange is delivered to subscribers of state synchronization.
type StateChange struct {
	Platform  Platform // empty for broadcasts
	Broadcast bool
	State     map[string]any
}

// stateHooks is a listener list in subscription order.
type stateHooks struct {
	mu        sync.Mutex
	next      uint64
	listeners []listener
}

type listener struct {
	id uint64
	fn func(StateChange)
}

func (h *stateHooks) subscribe(fn func(StateChange)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	h.listeners = append(h.listeners, listener{id: id, fn: fn})
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

func (h *stateHooks) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

func (h *stateHooks) notify(c StateChange) {
	h.mu.Lock()
	ls := make([]listener, len(h.listeners))
	copy(ls, h.listeners)
	h.mu.Unlock()
	for _, l := range ls {
		l.fn(c)
	}
}

// Subscribe registers fn for SyncState and BroadcastState and returns an
// unsubscribe function. A stateful transport uses this to propagate state.
func (c *Coordinator) Subscribe(fn func(StateChange)) func() {
	return c.hooks.subscribe(fn)
}

// SyncState announces the state of one platform. Without subscribers it
// does nothing.
func (c *Coordinator) SyncState(p Platform, state map[string]any) {
	c.hooks.notify(StateChange{Platform: p, State: state})
}

// BroadcastState announces a state to every platform. Without subscribers
// it does nothing.
func (c *Coordinator) BroadcastState(state map[string]any) {
	c.hooks.notify(StateChange{Broadcast: true, State: state})
}
