package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dshills/commitgate/internal/gate"
	"github.com/dshills/commitgate/internal/lint"
)

var (
	colorError   = lipgloss.Color("#E74C3C")
	colorWarning = lipgloss.Color("#F4D03F")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorMuted   = lipgloss.Color("#5C7A84")

	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

const invalidPrefix = "INVALID COMMIT MSG: "

// TextWriter outputs hook-style text. A single message prints only its
// diagnostics, so a passing commit-msg hook stays silent. Push and range
// reports add a line per commit and a summary.
type TextWriter struct {
	// Color enables ANSI styling.
	Color bool
}

func (t *TextWriter) Write(w io.Writer, report *gate.Report) error {
	ew := &errWriter{w: w}

	if report.Mode == gate.ModeMessage {
		for _, c := range report.Commits {
			t.writeVerdict(ew, c.Verdict, "")
		}
		return ew.err
	}

	for _, c := range report.Commits {
		ew.printf("%s %s %s\n", t.status(c.Verdict), t.muted(shortSHA(c.SHA)), c.Header)
		t.writeVerdict(ew, c.Verdict, "    ")
	}

	s := report.Summary
	ew.printf("Checked %d commits: %d accepted, %d rejected, %d warned, %d skipped\n",
		s.Checked, s.Accepted, s.Rejected, s.Warned, s.Skipped)
	if !report.Accepted {
		label := "Validation"
		if report.Mode == gate.ModePush {
			label = "Push validation"
		}
		ew.println(t.style(errorStyle, fmt.Sprintf("%s failed for commit %s", label, report.FailedCommit)))
	}
	return ew.err
}

func (t *TextWriter) writeVerdict(ew *errWriter, v lint.Verdict, indent string) {
	switch v.Outcome {
	case lint.OutcomeMerge:
		ew.printf("%s%s\n", indent, t.muted("Merge commit detected."))
		return
	case lint.OutcomeIgnored:
		ew.printf("%s%s\n", indent, t.muted("Commit message validation ignored."))
		return
	}

	for _, d := range v.Diagnostics {
		if !d.Kind.IsViolation() {
			ew.printf("%s%s\n", indent, d.Message)
			continue
		}
		st := errorStyle
		if v.Warned {
			st = warningStyle
		}
		ew.printf("%s%s%s\n", indent, t.style(st, invalidPrefix), d.Message)
	}

	switch {
	case v.Outcome == lint.OutcomeEmpty:
		ew.printf("%s%s\n", indent, t.style(errorStyle, "Aborting commit due to empty commit message."))
	case v.Warned:
		ew.printf("%s%s\n", indent, t.style(warningStyle, "Accepted with warnings (warn-on-fail)."))
	}
}

func (t *TextWriter) status(v lint.Verdict) string {
	switch {
	case !v.Accepted:
		return t.style(errorStyle, "[x]")
	case v.Warned:
		return t.style(warningStyle, "[!]")
	case v.Outcome == lint.OutcomeMerge || v.Outcome == lint.OutcomeIgnored:
		return t.muted("[-]")
	default:
		return t.style(successStyle, "[ok]")
	}
}

func (t *TextWriter) muted(s string) string {
	return t.style(mutedStyle, s)
}

func (t *TextWriter) style(st lipgloss.Style, s string) string {
	if !t.Color {
		return s
	}
	return st.Render(s)
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
