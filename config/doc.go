// Package config loads the legal-advisor TOML configuration.
//
// Before decoding, `${VAR}` references in the raw file are expanded
// from the environment; a reference to an unset variable is an error so
// missing credentials fail loudly at startup rather than silently
// producing empty headers. The cache section is the one exception to
// loud failure: an unreadable configuration degrades to a disabled
// cache, because the cache is an optimization and must never block the
// service from starting.
package config
