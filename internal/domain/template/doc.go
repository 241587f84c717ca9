// Package template contains the domain types describing starter templates.
//
// A Type is the kind of project a starter targets (its id ends up in the
// generated project config), a Starter is a downloadable archive of a
// specific skeleton, and a Catalog groups both for lookup by name.
package template
