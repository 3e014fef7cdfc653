package unifiedui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Platform identifies a render target. The set is closed.
type Platform string

const (
	Terminal Platform = "terminal"
	Desktop  Platform = "desktop"
	Web      Platform = "web"
)

// Platforms lists every known platform.
var Platforms = []Platform{Terminal, Desktop, Web}

// ParsePlatform parses a platform identifier.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Platforms {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
}

// Options carries adapter configuration for one render call.
type Options map[string]any

// Int returns an integer option, or def.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		if n, ok := toInt(v); ok {
			return n
		}
	}
	return def
}

// String returns a string option, or def.
func (o Options) String(key, def string) string {
	if s, ok := o[key].(string); ok && s != "" {
		return s
	}
	return def
}

// Bool returns a boolean option, or def.
func (o Options) Bool(key string, def bool) bool {
	if b, ok := o[key].(bool); ok {
		return b
	}
	return def
}

// RendererState is owned by the adapter that created it. The coordinator
// only reads it or replaces it wholesale.
type RendererState struct {
	Platform Platform
	Root     any
	Widgets  map[string]any
	Version  uint64
	Config   Options
	Metadata map[string]any
}

// Adapter renders an IUR tree for one platform.
type Adapter interface {
	Render(ctx context.Context, root Element, opts Options) (*RendererState, error)
	Update(ctx context.Context, root Element, st *RendererState, opts Options) (*RendererState, error)
	Destroy(st *RendererState) error
}

// RenderResult is the outcome of rendering on one platform.
type RenderResult struct {
	Platform Platform
	State    *RendererState
	Err      error
}

// OK reports whether the render succeeded.
func (r RenderResult) OK() bool { return r.Err == nil }

// Results maps each requested platform to its outcome.
type Results map[Platform]RenderResult

// Succeeded returns the platforms that rendered, sorted.
func (rs Results) Succeeded() []Platform {
	var out []Platform
	for p, r := range rs {
		if r.OK() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// States returns the renderer states of successful platforms.
func (rs Results) States() map[Platform]*RendererState {
	out := make(map[Platform]*RendererState)
	for p, r := range rs {
		if r.OK() {
			out[p] = r.State
		}
	}
	return out
}

var (
	ErrUnknownPlatform             = errors.New("unknown platform")
	ErrRenderTimeout               = errors.New("render timed out")
	ErrAllRenderersFailed          = errors.New("all renderers failed")
	ErrAllRenderersFailedOrTimeout = errors.New("all renderers failed or timed out")
)

// AdapterPanicError reports a panic raised inside an adapter.
type AdapterPanicError struct {
	Platform Platform
	Value    any
}

func (e *AdapterPanicError) Error() string {
	return fmt.Sprintf("%s adapter panicked: %v", e.Platform, e.Value)
}

// DefaultTimeout bounds concurrent renders when no budget is given.
const DefaultTimeout = 5 * time.Second

// Coordinator fans an IUR tree out to renderer adapters.
type Coordinator struct {
	adapters map[Platform]Adapter
	Timeout  time.Duration
	Logger   *log.Logger

	hooks stateHooks
}

// NewCoordinator creates a coordinator over a fixed platform→adapter table.
func NewCoordinator(adapters map[Platform]Adapter) *Coordinator {
	table := make(map[Platform]Adapter, len(adapters))
	for p, a := range adapters {
		if a != nil {
			table[p] = a
		}
	}
	return &Coordinator{adapters: table, Timeout: DefaultTimeout}
}

// Adapter returns the adapter registered for p.
func (c *Coordinator) Adapter(p Platform) (Adapter, bool) {
	a, ok := c.adapters[p]
	return a, ok
}

func (c *Coordinator) logger() *log.Logger { return loggerOr(c.Logger) }

func uniquePlatforms(ps []Platform) []Platform {
	seen := make(map[Platform]bool, len(ps))
	var out []Platform
	for _, p := range ps {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// RenderOn renders root on each platform in turn. Failures are recorded per
// platform; the call fails only if every platform failed.
func (c *Coordinator) RenderOn(ctx context.Context, root Element, platforms []Platform, opts Options) (Results, error) {
	results := make(Results, len(platforms))
	for _, p := range uniquePlatforms(platforms) {
		results[p] = c.renderOne(ctx, p, root, opts)
	}
	return results, c.aggregate(results, ErrAllRenderersFailed)
}

// ConcurrentRender renders root on every platform at once and waits at most
// timeout. Adapters still running at the deadline are abandoned and
// recorded as timed out; their late results are discarded.
func (c *Coordinator) ConcurrentRender(ctx context.Context, root Element, platforms []Platform, opts Options, timeout time.Duration) (Results, error) {
	if timeout <= 0 {
		timeout = c.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type done struct {
		p Platform
		r RenderResult
	}
	uniq := uniquePlatforms(platforms)
	results := make(Results, len(uniq))
	ch := make(chan done, len(uniq))
	pending := make(map[Platform]bool, len(uniq))

	for _, p := range uniq {
		if _, ok := c.adapters[p]; !ok {
			results[p] = c.fail(p, ErrUnknownPlatform)
			continue
		}
		pending[p] = true
		go func(p Platform) {
			ch <- done{p, c.renderOne(ctx, p, root, opts)}
		}(p)
	}

	for len(pending) > 0 {
		select {
		case d := <-ch:
			results[d.p] = d.r
			delete(pending, d.p)
		case <-ctx.Done():
			for p := range pending {
				results[p] = c.fail(p, fmt.Errorf("%w after %s", ErrRenderTimeout, timeout))
			}
			pending = nil
		}
	}
	return results, c.aggregate(results, ErrAllRenderersFailedOrTimeout)
}

// UpdateOn asks each platform's adapter to update its existing state.
func (c *Coordinator) UpdateOn(ctx context.Context, root Element, states map[Platform]*RendererState, opts Options) (Results, error) {
	ps := make([]Platform, 0, len(states))
	for p := range states {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })

	results := make(Results, len(ps))
	for _, p := range ps {
		st := states[p]
		results[p] = c.call(p, func(a Adapter) (*RendererState, error) {
			return a.Update(ctx, root, st, opts)
		})
	}
	return results, c.aggregate(results, ErrAllRenderersFailed)
}

// DestroyAll releases every state with its adapter and joins the errors.
func (c *Coordinator) DestroyAll(states map[Platform]*RendererState) error {
	var errs []error
	for p, st := range states {
		r := c.call(p, func(a Adapter) (*RendererState, error) {
			return st, a.Destroy(st)
		})
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

func (c *Coordinator) renderOne(ctx context.Context, p Platform, root Element, opts Options) RenderResult {
	r := c.call(p, func(a Adapter) (*RendererState, error) {
		return a.Render(ctx, root, opts)
	})
	if r.Err != nil && errors.Is(r.Err, context.DeadlineExceeded) && !errors.Is(r.Err, ErrRenderTimeout) {
		r.Err = fmt.Errorf("%w: %w", ErrRenderTimeout, r.Err)
	}
	return r
}

// call runs fn against the adapter for p, converting panics and missing
// states into failures.
func (c *Coordinator) call(p Platform, fn func(Adapter) (*RendererState, error)) (res RenderResult) {
	a, ok := c.adapters[p]
	if !ok {
		return c.fail(p, ErrUnknownPlatform)
	}
	defer func() {
		if v := recover(); v != nil {
			res = c.fail(p, &AdapterPanicError{Platform: p, Value: v})
		}
	}()
	st, err := fn(a)
	if err != nil {
		return c.fail(p, err)
	}
	if st == nil {
		return c.fail(p, fmt.Errorf("%s adapter returned no state", p))
	}
	return RenderResult{Platform: p, State: st}
}

func (c *Coordinator) fail(p Platform, err error) RenderResult {
	c.logger().Printf("render: %s: %v", p, err)
	return RenderResult{Platform: p, Err: err}
}

func (c *Coordinator) aggregate(results Results, allFailed error) error {
	for _, r := range results {
		if r.OK() {
			return nil
		}
	}
	return allFailed
}
