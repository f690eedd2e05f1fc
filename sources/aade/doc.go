// Package aade queries the Greek tax authority's public APIs using a
// subscription-key header.
package aade
