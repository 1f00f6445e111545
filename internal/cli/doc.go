// Package cli wires together the Cobra command tree for the commitgate binary.
//
// It defines the root command and all subcommands (check, pre-receive, range,
// hook, config, version), binds flags, reads configuration, runs the gate
// checker, and returns deterministic exit codes for hooks and CI.
package cli
