// Package starter implements the app-starter commands.
//
// Run creates a project: it validates the name and destination, downloads
// and extracts the starter archive, patches package.json, writes
// ionic.config.json and prints the next steps. ListTemplates and Extract
// back the `templates` and `extract` commands.
package starter
