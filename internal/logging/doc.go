// Package logging provides structured logging for the gpioweb project.
//
// It wraps go.uber.org/zap with a process-global logger plus package-level
// convenience functions, so that every package logs through the same
// configuration without threading a logger handle everywhere.
//
// # Log Levels
//
// The level is chosen in this order:
//  1. The explicit level passed to Initialize (daemon --log-level flag)
//  2. The GPIOWEB_LOG_LEVEL environment variable
//  3. "info" as the default
//
// The gpioweb-cfg CLI calls Silence() instead, so that command output is not
// interleaved with log lines unless the user opts in via the environment.
//
// # Domain Helpers
//
// Besides the generic Info/Debug/Warn/Error wrappers, the package provides
// helpers for the events that matter on this device: connectivity mode
// transitions (LogModeChange), station connection attempts (LogAttempt) and
// captive DNS queries (LogDNSQuery).
package logging
