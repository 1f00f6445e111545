// Package gate runs the message validator over what a hook hands it: a
// single commit message, the ref updates of a push, or a local revision
// range.
//
// Commits are enumerated through a [RevisionSource] so the package never
// talks to git directly. Messages are fetched and validated concurrently
// with bounded parallelism, but results are reported in enumeration order
// and a push stops at its first rejected commit.
package gate
