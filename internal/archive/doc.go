// Package archive unpacks compressed tar streams into a directory.
//
// The stream is decompressed (gzip, or zlib-wrapped deflate) and untarred
// while it is read, so memory use does not depend on the archive size. The
// first path segment of every entry is discarded, which drops the single
// wrapper folder template archives are published with.
package archive
