// doc.go - package walk
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is".

// Package walk implements the OVAL filesystem walker: a cooperative,
// single-threaded iterator over a directory tree that steers its own
// traversal (skip a subtree, follow a symlink) while filtering entries
// against an OVAL path/filename or filepath entity and a behaviors record.
//
// A Walker handle is opened once, read until end of stream, and closed. It
// is not safe for concurrent use by multiple goroutines; distinct handles
// are independent.
package walk
