package unifiedui

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeStates(t *testing.T) {
	t.Run("DeepMerge", func(t *testing.T) {
		a := map[string]any{"count": 1, "nested": map[string]any{"a": 1}}
		b := map[string]any{"count": 2, "nested": map[string]any{"b": 2}}
		got := MergeStates(a, b)
		want := map[string]any{"count": 2, "nested": map[string]any{"a": 1, "b": 2}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
		if _, ok := a["nested"].(map[string]any)["b"]; ok {
			t.Error("inputs were modified")
		}
	})

	t.Run("ScalarReplacesMap", func(t *testing.T) {
		got := MergeStates(map[string]any{"x": map[string]any{"a": 1}}, map[string]any{"x": 3})
		if got["x"] != 3 {
			t.Errorf("got %v", got)
		}
	})

	t.Run("StateValues", func(t *testing.T) {
		got := MergeStates(map[string]any{"s": State{"a": 1}}, map[string]any{"s": map[string]any{"b": 2}})
		want := map[string]any{"s": map[string]any{"a": 1, "b": 2}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch:\n%s", diff)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := MergeStates(); len(got) != 0 {
			t.Errorf("got %v", got)
		}
	})
}

func TestConflictResolution(t *testing.T) {
	newer := map[string]any{"v": 2}
	if got := ConflictResolution(map[string]any{"v": 1}, newer); got["v"] != 2 {
		t.Errorf("newer state should win, got %v", got)
	}
}

func TestReconcileStates(t *testing.T) {
	c := NewCoordinator(map[Platform]Adapter{Web: okAdapter(Web), Terminal: okAdapter(Terminal)})
	res, err := c.RenderOn(context.Background(), testRoot(), []Platform{Web, Terminal, Desktop}, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := ReconcileStates(res)
	want := map[string]any{"terminal": true, "web": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch:\n%s", diff)
	}
}

func TestStateHooks(t *testing.T) {
	c := NewCoordinator(nil)

	// No subscribers: nothing happens.
	c.SyncState(Web, map[string]any{"a": 1})
	c.BroadcastState(map[string]any{"a": 1})

	var got []StateChange
	unsub := c.Subscribe(func(ch StateChange) { got = append(got, ch) })
	c.SyncState(Web, map[string]any{"a": 1})
	c.BroadcastState(map[string]any{"b": 2})
	unsub()
	c.SyncState(Terminal, map[string]any{"c": 3})

	want := []StateChange{
		{Platform: Web, State: map[string]any{"a": 1}},
		{Broadcast: true, State: map[string]any{"b": 2}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestStateHooksUnsubscribe(t *testing.T) {
	c := NewCoordinator(nil)
	var order []string
	keep := c.Subscribe(func(StateChange) { order = append(order, "keep") })
	defer keep()

	for i := 0; i < 100; i++ {
		unsub := c.Subscribe(func(StateChange) { order = append(order, "gone") })
		unsub()
		unsub()
	}
	if n := c.hooks.len(); n != 1 {
		t.Fatalf("listeners = %d, want 1", n)
	}

	last := c.Subscribe(func(StateChange) { order = append(order, "last") })
	c.BroadcastState(nil)
	last()
	c.BroadcastState(nil)
	if diff := cmp.Diff([]string{"keep", "last", "keep"}, order); diff != "" {
		t.Errorf("notify order mismatch (-want +got):\n%s", diff)
	}
	if n := c.hooks.len(); n != 1 {
		t.Errorf("listeners = %d, want 1", n)
	}
}
