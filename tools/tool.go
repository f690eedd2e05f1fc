package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for tool registration and dispatch.
var (
	ErrInvalidTool = errors.New("tools: tool is invalid")
	ErrUnknownTool = errors.New("tools: unknown tool")
	ErrDuplicate   = errors.New("tools: tool already registered")
	ErrMissingArg  = errors.New("tools: required argument missing")
	ErrInvalidArg  = errors.New("tools: argument is invalid")
)

// Handler executes a tool call against its upstream source.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool describes one query operation exposed by a source integration.
type Tool struct {
	// Name is the unique tool name, e.g. "eurlex.search".
	Name string

	// Description is shown to callers listing available tools.
	Description string

	// Source is the cache partition label for this tool's results.
	// Integrations must keep it consistent across their tools.
	Source string

	// TTL bounds how long results stay cached. Zero means the cache's
	// configured default.
	TTL time.Duration

	// Cacheable marks whether results may be served from the cache.
	// Tools with side effects must set it false.
	Cacheable bool

	// Tags are free-form labels for discovery.
	Tags []string

	// Handler performs the actual query.
	Handler Handler
}

// Validate checks the tool definition.
func (t Tool) Validate() error {
	if strings.TrimSpace(t.Name) == "" || strings.ContainsAny(t.Name, " \t\n") {
		return fmt.Errorf("%w: bad name %q", ErrInvalidTool, t.Name)
	}
	if t.Source == "" {
		return fmt.Errorf("%w: %s has no source label", ErrInvalidTool, t.Name)
	}
	if t.Handler == nil {
		return fmt.Errorf("%w: %s has no handler", ErrInvalidTool, t.Name)
	}
	return nil
}

// StringArg extracts a required string argument.
func StringArg(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingArg, name)
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidArg, name)
	}
	return s, nil
}

// OptionalStringArg extracts an optional string argument, returning
// fallback when absent.
func OptionalStringArg(args map[string]any, name, fallback string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidArg, name)
	}
	return s, nil
}

// IntArg extracts an optional integer argument, accepting JSON's
// float64 numbers, returning fallback when absent.
func IntArg(args map[string]any, name string, fallback int) (int, error) {
	raw, ok := args[name]
	if !ok {
		return fallback, nil
	}
	switch n := raw.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidArg, name)
	}
}
