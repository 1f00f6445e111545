package gitctx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// GetRepoMeta collects repository metadata from git. Bare repositories have
// no work tree, so Root falls back to the git directory.
func GetRepoMeta(ctx context.Context, dir string) (RepoMeta, error) {
	root, err := gitOutput(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		root, err = gitOutput(ctx, dir, "rev-parse", "--absolute-git-dir")
		if err != nil {
			return RepoMeta{}, fmt.Errorf("not a git repository: %w", err)
		}
	}
	head, err := gitOutput(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		head = "" // new repo with no commits
	}
	branch, err := gitOutput(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = ""
	}
	return RepoMeta{
		Root:   strings.TrimSpace(root),
		Head:   strings.TrimSpace(head),
		Branch: strings.TrimSpace(branch),
	}, nil
}

// IsZeroRev reports whether rev is the all-zero object name git uses for a
// missing side of a ref update.
func IsZeroRev(rev string) bool {
	if rev == "" {
		return false
	}
	return strings.Trim(rev, "0") == ""
}

// Repo reads commits from the repository at Dir. An empty Dir uses the
// current working directory.
type Repo struct {
	Dir string
}

// ListNewCommitIDs returns the commits reachable from newRev but not from
// oldRev, oldest first. A zero newRev (ref deletion) yields nothing; a zero
// oldRev (ref creation) yields the commits not already reachable from any
// existing ref.
func (r *Repo) ListNewCommitIDs(ctx context.Context, oldRev, newRev string) ([]string, error) {
	if IsZeroRev(newRev) {
		return nil, nil
	}

	args := []string{"rev-list", "--reverse"}
	if IsZeroRev(oldRev) || oldRev == "" {
		args = append(args, newRev, "--not", "--all")
	} else {
		args = append(args, oldRev+".."+newRev)
	}

	out, err := gitOutput(ctx, r.Dir, args...)
	if err != nil {
		return nil, fmt.Errorf("git rev-list %s..%s: %w", oldRev, newRev, err)
	}

	var ids []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}

// CommitMessage returns the raw message of commit id.
func (r *Repo) CommitMessage(ctx context.Context, id string) (string, error) {
	out, err := gitOutput(ctx, r.Dir, "log", "--format=%B", "-n", "1", id)
	if err != nil {
		return "", fmt.Errorf("git log %s: %w", id, err)
	}
	return out, nil
}

// HooksDir returns the directory git runs hooks from. It honours
// core.hooksPath, and from a linked worktree it resolves to the shared hooks
// directory rather than the worktree's private git directory.
func HooksDir(ctx context.Context, dir string) (string, error) {
	base, err := gitOutput(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		base, err = gitOutput(ctx, dir, "rev-parse", "--absolute-git-dir")
		if err != nil {
			return "", fmt.Errorf("not a git repository: %w", err)
		}
	}
	base = strings.TrimSpace(base)

	out, err := gitOutput(ctx, base, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", fmt.Errorf("resolving hooks directory: %w", err)
	}
	hooks := strings.TrimSpace(out)
	if !filepath.IsAbs(hooks) {
		hooks = filepath.Join(base, hooks)
	}
	return hooks, nil
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
