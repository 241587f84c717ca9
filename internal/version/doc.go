// Package version exposes build metadata for app-starter.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds.
// Short and Full render the version for the CLI; UserAgent identifies
// template downloads.
package version
