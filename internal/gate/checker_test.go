package gate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/commitgate/internal/gitctx"
	"github.com/dshills/commitgate/internal/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves commits from memory. ranges maps "old..new" to ids.
type fakeSource struct {
	ranges   map[string][]string
	messages map[string]string
	failOn   string
}

func (f *fakeSource) ListNewCommitIDs(_ context.Context, oldRev, newRev string) ([]string, error) {
	ids, ok := f.ranges[oldRev+".."+newRev]
	if !ok {
		return nil, fmt.Errorf("unknown range %s..%s", oldRev, newRev)
	}
	return ids, nil
}

func (f *fakeSource) CommitMessage(_ context.Context, id string) (string, error) {
	if id == f.failOn {
		return "", errors.New("object not found")
	}
	return f.messages[id], nil
}

type countingObserver struct {
	mu       sync.Mutex
	verdicts []lint.Verdict
}

func (o *countingObserver) Observe(v lint.Verdict) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.verdicts = append(o.verdicts, v)
}

func newFake() *fakeSource {
	return &fakeSource{
		ranges: map[string][]string{
			"o1..n1": {"c1", "c2", "c3"},
			"o2..n2": {"c4"},
			"o3..n3": {},
		},
		messages: map[string]string{
			"c1": "feat: first",
			"c2": "Merge branch 'x'",
			"c3": "fix(api): third",
			"c4": "not conventional",
		},
	}
}

func TestCheckMessage(t *testing.T) {
	obs := &countingObserver{}
	c := &Checker{Lint: lint.DefaultConfig(), Observer: obs}

	report := c.CheckMessage("feat: ok\n# comment")
	assert.True(t, report.Accepted)
	assert.Equal(t, ModeMessage, report.Mode)
	assert.Equal(t, "commitgate", report.Tool)
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Commits, 1)
	assert.Equal(t, "feat: ok", report.Commits[0].Header)
	assert.Len(t, obs.verdicts, 1)

	report = c.CheckMessage("nope")
	assert.False(t, report.Accepted)
	assert.Equal(t, 1, report.Summary.Rejected)
}

func TestCheckPush_AllAccepted(t *testing.T) {
	obs := &countingObserver{}
	c := &Checker{Source: newFake(), Lint: lint.DefaultConfig(), Jobs: 2, Observer: obs}

	report, err := c.CheckPush(context.Background(), []RefUpdate{
		{OldRev: "o1", NewRev: "n1", RefName: "refs/heads/main"},
		{OldRev: "o3", NewRev: "n3", RefName: "refs/heads/empty"},
	})
	require.NoError(t, err)
	assert.True(t, report.Accepted)
	assert.Empty(t, report.FailedCommit)
	require.Len(t, report.Commits, 3)

	// Enumeration order is preserved regardless of fetch concurrency.
	assert.Equal(t, "c1", report.Commits[0].SHA)
	assert.Equal(t, "c2", report.Commits[1].SHA)
	assert.Equal(t, "c3", report.Commits[2].SHA)
	assert.Equal(t, "refs/heads/main", report.Commits[0].Ref)

	assert.Equal(t, Summary{Checked: 3, Accepted: 3, Skipped: 1}, report.Summary)
	assert.Len(t, obs.verdicts, 3)
}

func TestCheckPush_StopsAtFirstRejection(t *testing.T) {
	src := newFake()
	src.ranges["o1..n1"] = []string{"c1", "c4", "c3"}
	c := &Checker{Source: src, Lint: lint.DefaultConfig()}

	report, err := c.CheckPush(context.Background(), []RefUpdate{
		{OldRev: "o1", NewRev: "n1", RefName: "refs/heads/main"},
		{OldRev: "o3", NewRev: "n3", RefName: "refs/heads/other"},
	})
	require.NoError(t, err)
	assert.False(t, report.Accepted)
	assert.Equal(t, "c4", report.FailedCommit)
	require.Len(t, report.Commits, 2, "commits after the rejection are not reported")
	assert.True(t, report.Commits[1].Verdict.Has(lint.KindMalformedHeader))
	assert.Equal(t, 1, report.Summary.Rejected)
}

func TestCheckPush_WarnOnFail(t *testing.T) {
	cfg := lint.DefaultConfig()
	cfg.WarnOnFail = true
	c := &Checker{Source: newFake(), Lint: cfg}

	report, err := c.CheckPush(context.Background(), []RefUpdate{
		{OldRev: "o2", NewRev: "n2", RefName: "refs/heads/main"},
	})
	require.NoError(t, err)
	assert.True(t, report.Accepted)
	assert.Equal(t, 1, report.Summary.Warned)
	assert.True(t, report.Commits[0].Verdict.Warned)
}

func TestCheckPush_SourceErrors(t *testing.T) {
	src := newFake()
	c := &Checker{Source: src, Lint: lint.DefaultConfig()}

	_, err := c.CheckPush(context.Background(), []RefUpdate{{OldRev: "x", NewRev: "y"}})
	assert.ErrorContains(t, err, "listing commits")

	src.failOn = "c2"
	_, err = c.CheckPush(context.Background(), []RefUpdate{{OldRev: "o1", NewRev: "n1"}})
	assert.ErrorContains(t, err, "reading message of c2")
}

func TestCheckRange(t *testing.T) {
	c := &Checker{Source: newFake(), Lint: lint.DefaultConfig()}
	report, err := c.CheckRange(context.Background(), "o2", "n2")
	require.NoError(t, err)
	assert.Equal(t, ModeRange, report.Mode)
	assert.False(t, report.Accepted)
	assert.Equal(t, "c4", report.FailedCommit)
}

func TestComputeSummary(t *testing.T) {
	results := []CommitResult{
		{Verdict: lint.Verdict{Accepted: true, Outcome: lint.OutcomeChecked}},
		{Verdict: lint.Verdict{Accepted: true, Outcome: lint.OutcomeIgnored}},
		{Verdict: lint.Verdict{Accepted: true, Outcome: lint.OutcomeChecked, Warned: true}},
		{Verdict: lint.Verdict{Accepted: false, Outcome: lint.OutcomeEmpty}},
	}
	assert.Equal(t, Summary{Checked: 4, Accepted: 3, Rejected: 1, Warned: 1, Skipped: 1}, ComputeSummary(results))
}

func TestCheckPush_GitRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	git := func(args ...string) string {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test",
			"GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=test",
			"GIT_COMMITTER_EMAIL=test@test.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
		return strings.TrimSpace(string(out))
	}

	git("init", "-q")
	git("commit", "-q", "--allow-empty", "-m", "chore: init")
	base := git("rev-parse", "HEAD")
	git("commit", "-q", "--allow-empty", "-m", "feat(cli): add flag")
	git("commit", "-q", "--allow-empty", "-m", "bad message")
	head := git("rev-parse", "HEAD")

	c := &Checker{Source: &gitctx.Repo{Dir: dir}, Lint: lint.DefaultConfig()}
	report, err := c.CheckPush(context.Background(), []RefUpdate{{OldRev: base, NewRev: head, RefName: "refs/heads/main"}})
	require.NoError(t, err)
	assert.False(t, report.Accepted)
	require.Len(t, report.Commits, 2)
	assert.Equal(t, "feat(cli): add flag", report.Commits[0].Header)
	assert.Equal(t, head, report.FailedCommit)
}
