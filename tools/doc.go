// Package tools defines the uniform contract under which every
// data-source integration is exposed: a named tool with a handler, a
// registry of tools, and a dispatcher that executes requests with
// read-through caching and in-flight deduplication.
package tools
