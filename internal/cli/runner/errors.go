// Package runner provides an interceptor-based command execution framework for CLI commands.
// Interceptors wrap a handler the way HTTP middleware wraps a request.
package runner

import "errors"

// ErrNotConfigured is returned when runtime options failed to load
var ErrNotConfigured = errors.New("runtime options not loaded")
