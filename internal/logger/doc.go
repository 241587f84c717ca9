// Package logger wraps zap to offer:
//   - a global sugared logger writing human-readable lines to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing for the --log-level flag and the settings file,
//   - convenience functions (Infof, WarnKV, etc.).
//
// Every command puts a named logger into its context so that the archive
// pipeline and the manifest helpers log under the command that invoked them.
package logger
