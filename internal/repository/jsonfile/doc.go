// Package jsonfile reads and writes the JSON documents generated by a
// starter template (package.json, its patch overlay, ionic.config.json).
//
// Read failures carry tagged errors (ErrNotFound, ErrInvalidJSON) so callers
// can tell a missing file from a malformed one with errors.Is. Writes are
// applied atomically: the document is staged next to the target and renamed
// over it. No locking is performed; concurrent writers race.
package jsonfile
