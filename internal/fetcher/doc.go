// Package fetcher downloads template archives and streams them into the
// archive extractor.
//
// The response body is piped straight into decompression and unpacking;
// download and extraction run concurrently and each stage only reads as
// fast as the next one consumes, so the archive is never held in memory.
// Nothing is retried: callers decide whether to run the whole operation again.
package fetcher
