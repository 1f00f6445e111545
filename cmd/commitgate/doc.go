// Commitgate is a validator for "<type>(<scope>): <subject>" commit messages.
//
// It runs as a git commit-msg hook, as a server-side pre-receive hook, or
// over a revision range in CI, with deterministic exit codes.
//
// Usage:
//
//	commitgate check .git/COMMIT_EDITMSG   # commit-msg hook
//	commitgate pre-receive                 # reads "<old> <new> <ref>" lines from stdin
//	commitgate range origin/main..HEAD     # validate a revision range
//	commitgate hook install --type commit-msg
//
// See https://github.com/dshills/commitgate for full documentation.
package main
