package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/Angioz/MCP-LEGAL-ADVISOR/cache"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/observe"
)

// Dispatcher executes tool requests with read-through caching.
//
// On a cacheable call the dispatcher derives a deterministic key from
// the tool name and arguments, serves a live cached value when present,
// and otherwise runs the handler and stores its result under the tool's
// source label and TTL. Concurrent identical misses collapse into a
// single handler invocation. Handler errors are never cached, and a
// failed cache write never fails the call.
type Dispatcher struct {
	registry *Registry
	cache    *cache.Cache
	mw       *observe.Middleware
	log      observe.Logger
	group    singleflight.Group
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithMiddleware attaches observability middleware.
func WithMiddleware(mw *observe.Middleware) DispatcherOption {
	return func(d *Dispatcher) { d.mw = mw }
}

// WithLogger attaches a logger for best-effort diagnostics.
func WithLogger(log observe.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.log = log }
}

// NewDispatcher creates a Dispatcher over a registry and cache.
func NewDispatcher(registry *Registry, c *cache.Cache, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		cache:    c,
		mw:       observe.NewMiddleware(nil, nil, nil),
		log:      observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute runs one tool request and returns its response envelope.
// Failures are reported inside the envelope, never as a panic or a bare
// error to the transport.
func (d *Dispatcher) Execute(ctx context.Context, req Request) Response {
	resp := Response{ID: req.ID, Tool: req.Tool}
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}

	tool, ok := d.registry.Lookup(req.Tool)
	if !ok {
		resp.Error = fmt.Sprintf("%v: %s", ErrUnknownTool, req.Tool)
		return resp
	}

	meta := observe.Meta{Tool: tool.Name, Source: tool.Source}
	cached := false
	run := d.mw.Wrap(func(ctx context.Context, meta observe.Meta, args map[string]any) (any, error) {
		value, hit, err := d.execute(ctx, tool, meta, args)
		cached = hit
		return value, err
	})

	result, err := run(ctx, meta, req.Args)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Result = result
	resp.Cached = cached
	return resp
}

// execute performs the cache-aware handler invocation.
func (d *Dispatcher) execute(ctx context.Context, tool Tool, meta observe.Meta, args map[string]any) (value any, hit bool, err error) {
	if !tool.Cacheable || !d.cache.Enabled() {
		value, err = tool.Handler(ctx, args)
		return value, false, err
	}

	key := cache.GenerateKey(tool.Name, args)
	if raw, ok := d.cache.Get(ctx, key); ok {
		d.mw.CacheLookup(ctx, meta, true)
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			return decoded, true, nil
		}
		// Undecodable hit: fall through to a fresh fetch.
	}
	d.mw.CacheLookup(ctx, meta, false)

	value, err, _ = d.group.Do(key, func() (any, error) {
		result, err := tool.Handler(ctx, args)
		if err != nil {
			return nil, err
		}
		if err := d.cache.Set(ctx, key, result, tool.TTL, tool.Source); err != nil {
			d.log.Warn(ctx, "cache write failed",
				observe.Field{Key: "tool", Value: tool.Name},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
		return result, nil
	})
	return value, false, err
}
