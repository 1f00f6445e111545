package gate

import (
	"github.com/dshills/commitgate/internal/lint"
)

// Check modes.
const (
	ModeMessage = "message"
	ModePush    = "push"
	ModeRange   = "range"
)

// RepoInfo contains repository metadata.
type RepoInfo struct {
	Root   string `json:"root,omitempty"`
	Head   string `json:"head,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// CommitResult is the verdict for one commit.
type CommitResult struct {
	SHA     string       `json:"sha,omitempty"`
	Ref     string       `json:"ref,omitempty"`
	Header  string       `json:"header"`
	Verdict lint.Verdict `json:"verdict"`
}

// Summary counts verdicts by result.
type Summary struct {
	Checked  int `json:"checked"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Warned   int `json:"warned"`
	Skipped  int `json:"skipped"`
}

// Timing contains performance metrics.
type Timing struct {
	GitMs   int64 `json:"gitMs"`
	TotalMs int64 `json:"totalMs"`
}

// Report is the top-level output structure.
type Report struct {
	Tool         string         `json:"tool"`
	Version      string         `json:"version"`
	RunID        string         `json:"runId"`
	Mode         string         `json:"mode"`
	Repo         RepoInfo       `json:"repo"`
	Updates      []RefUpdate    `json:"updates,omitempty"`
	Commits      []CommitResult `json:"commits"`
	Summary      Summary        `json:"summary"`
	Accepted     bool           `json:"accepted"`
	FailedCommit string         `json:"failedCommit,omitempty"`
	Timing       Timing         `json:"timing"`
}

// ComputeSummary counts the verdicts in results. Merge and ignored commits
// count as skipped.
func ComputeSummary(results []CommitResult) Summary {
	var s Summary
	for _, r := range results {
		s.Checked++
		switch {
		case !r.Verdict.Accepted:
			s.Rejected++
		case r.Verdict.Outcome == lint.OutcomeMerge || r.Verdict.Outcome == lint.OutcomeIgnored:
			s.Skipped++
			s.Accepted++
		case r.Verdict.Warned:
			s.Warned++
			s.Accepted++
		default:
			s.Accepted++
		}
	}
	return s
}
