package gate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/commitgate/internal/lint"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	toolName      = "commitgate"
	reportVersion = "1.0"

	// DefaultJobs bounds concurrent message fetches when Checker.Jobs is unset.
	DefaultJobs = 4
)

// RevisionSource enumerates the commits of a ref update and reads their
// messages.
type RevisionSource interface {
	ListNewCommitIDs(ctx context.Context, oldRev, newRev string) ([]string, error)
	CommitMessage(ctx context.Context, id string) (string, error)
}

// Observer is notified of every reported verdict.
type Observer interface {
	Observe(v lint.Verdict)
}

// Checker validates messages with a fixed lint configuration.
type Checker struct {
	Source   RevisionSource
	Lint     lint.Config
	Jobs     int
	Repo     RepoInfo
	Logger   *slog.Logger
	Observer Observer
}

// CheckMessage validates a single raw message, as a commit-msg hook does.
func (c *Checker) CheckMessage(raw string) *Report {
	start := time.Now()
	report := c.newReport(ModeMessage)

	res := CommitResult{
		Header:  lint.FirstLine(lint.StripComments(raw)),
		Verdict: lint.Validate(raw, c.Lint),
	}
	c.record(report, res)

	report.Summary = ComputeSummary(report.Commits)
	report.Timing.TotalMs = time.Since(start).Milliseconds()
	return report
}

// CheckPush validates every commit introduced by updates. Checking stops at
// the first rejected commit.
func (c *Checker) CheckPush(ctx context.Context, updates []RefUpdate) (*Report, error) {
	start := time.Now()
	report := c.newReport(ModePush)
	report.Updates = updates

	for _, u := range updates {
		if err := c.checkUpdate(ctx, report, u); err != nil {
			return nil, err
		}
		if !report.Accepted {
			break
		}
	}

	report.Summary = ComputeSummary(report.Commits)
	report.Timing.TotalMs = time.Since(start).Milliseconds()
	return report, nil
}

// CheckRange validates the commits in oldRev..newRev.
func (c *Checker) CheckRange(ctx context.Context, oldRev, newRev string) (*Report, error) {
	start := time.Now()
	report := c.newReport(ModeRange)

	u := RefUpdate{OldRev: oldRev, NewRev: newRev}
	if err := c.checkUpdate(ctx, report, u); err != nil {
		return nil, err
	}

	report.Summary = ComputeSummary(report.Commits)
	report.Timing.TotalMs = time.Since(start).Milliseconds()
	return report, nil
}

func (c *Checker) checkUpdate(ctx context.Context, report *Report, u RefUpdate) error {
	log := c.logger().With("ref", u.RefName, "old", u.OldRev, "new", u.NewRev)

	gitStart := time.Now()
	ids, err := c.Source.ListNewCommitIDs(ctx, u.OldRev, u.NewRev)
	if err != nil {
		return fmt.Errorf("listing commits: %w", err)
	}
	log.Debug("listed new commits", "count", len(ids))

	results := make([]CommitResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs())
	for i, id := range ids {
		g.Go(func() error {
			msg, err := c.Source.CommitMessage(gctx, id)
			if err != nil {
				return fmt.Errorf("reading message of %s: %w", id, err)
			}
			results[i] = CommitResult{
				SHA:     id,
				Ref:     u.RefName,
				Header:  lint.FirstLine(lint.StripComments(msg)),
				Verdict: lint.Validate(msg, c.Lint),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	report.Timing.GitMs += time.Since(gitStart).Milliseconds()

	for _, res := range results {
		c.record(report, res)
		log.Debug("checked commit", "sha", res.SHA, "outcome", res.Verdict.Outcome, "accepted", res.Verdict.Accepted)
		if !res.Verdict.Accepted {
			log.Info("commit rejected", "sha", res.SHA, "header", res.Header)
			break
		}
	}
	return nil
}

// record appends res and marks the report failed on the first rejection.
func (c *Checker) record(report *Report, res CommitResult) {
	report.Commits = append(report.Commits, res)
	if c.Observer != nil {
		c.Observer.Observe(res.Verdict)
	}
	if !res.Verdict.Accepted && report.Accepted {
		report.Accepted = false
		report.FailedCommit = res.SHA
	}
}

func (c *Checker) newReport(mode string) *Report {
	return &Report{
		Tool:     toolName,
		Version:  reportVersion,
		RunID:    uuid.NewString(),
		Mode:     mode,
		Repo:     c.Repo,
		Commits:  []CommitResult{},
		Accepted: true,
	}
}

func (c *Checker) jobs() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return DefaultJobs
}

func (c *Checker) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
