// Package config defines the settings used by app-starter and provides
// helpers to load, validate and save them in YAML format.
//
// Settings hold the download timeout, the log level and the starter
// template catalog. A built-in default catalog is used when no settings
// file exists.
package config
