// Package lint validates commit messages against the
// "<type>(<scope>): <subject>" convention.
//
// [Validate] strips comment lines and works on the first remaining line.
// Merge commits, WIP markers and release versions are accepted without
// checks. Everything else is parsed into a [Header] and checked, and the
// result is a [Verdict] with ordered diagnostics. Validate performs no I/O
// and is safe for concurrent use.
package lint
