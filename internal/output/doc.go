// Package output formats gate reports for display or machine consumption.
//
// Two formats are supported:
//   - text: hook-style terminal output, colored when writing to a terminal
//   - json: the full structured report
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*gate.Report]. [WriteReport]
// handles destination selection.
package output
