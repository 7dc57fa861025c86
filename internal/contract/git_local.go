package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(_ context.Context, dir string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", dir}, args...)
	cmd := exec.Command("git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s", dir, redactCredentials(stderr))
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// RepoRoot implements the GitClient interface.
func (c *LocalGitClient) RepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentRef implements the GitClient interface. It prefers the symbolic
// branch name and falls back to an exact tag match when HEAD is detached,
// which is the normal state on CI tag builds.
func (c *LocalGitClient) CurrentRef(ctx context.Context, dir string) (string, error) {
	if out, err := c.Run(ctx, dir, "symbolic-ref", "--short", "-q", "HEAD"); err == nil {
		ref := strings.TrimSpace(string(out))
		if ref != "" {
			return ref, nil
		}
	}
	out, err := c.Run(ctx, dir, "describe", "--tags", "--exact-match")
	if err != nil {
		return "", fmt.Errorf("cannot resolve the current reference (detached HEAD without a tag?): %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// HeadHash implements the GitClient interface.
func (c *LocalGitClient) HeadHash(ctx context.Context, dir string) (string, error) {
	out, err := c.Run(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// RemoteURL implements the GitClient interface.
func (c *LocalGitClient) RemoteURL(ctx context.Context, dir string, remote string) (string, error) {
	out, err := c.Run(ctx, dir, "remote", "get-url", remote)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// CloneBranch implements the GitClient interface. Each deployment run
// clones fresh; there is no incremental fetch or cleanup of previous runs.
func (c *LocalGitClient) CloneBranch(ctx context.Context, url, branch, dest string) error {
	_, err := c.Run(ctx, ".", "clone", "--depth", "1", "--branch", branch, url, dest)
	if err == nil {
		return nil
	}

	// The target branch may not exist yet on a brand new pages repository.
	// Initialize an orphan branch of that name so the first deployment can
	// create it.
	if _, initErr := c.Run(ctx, ".", "clone", "--depth", "1", url, dest); initErr != nil {
		return err
	}
	if _, coErr := c.Run(ctx, dest, "checkout", "--orphan", branch); coErr != nil {
		return coErr
	}
	if _, rmErr := c.Run(ctx, dest, "rm", "-rf", "--ignore-unmatch", "."); rmErr != nil {
		return rmErr
	}
	return nil
}

// Add implements the GitClient interface.
func (c *LocalGitClient) Add(ctx context.Context, dir string) error {
	_, err := c.Run(ctx, dir, "add", "-A")
	return err
}

// Commit implements the GitClient interface.
func (c *LocalGitClient) Commit(ctx context.Context, dir, message, user, email string) error {
	_, err := c.Run(ctx, dir,
		"-c", "user.name="+user,
		"-c", "user.email="+email,
		"commit", "-m", message)
	return err
}

// Push implements the GitClient interface.
func (c *LocalGitClient) Push(ctx context.Context, dir, branch string) error {
	_, err := c.Run(ctx, dir, "push", "origin", branch)
	return err
}

// redactCredentials strips userinfo from URLs that git echoes back in error
// messages, so the push token never reaches logs.
func redactCredentials(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if at := strings.Index(f, "@"); at > 0 && strings.Contains(f, "://") {
			scheme := f[:strings.Index(f, "://")+3]
			fields[i] = scheme + "***" + f[at:]
		}
	}
	return strings.Join(fields, " ")
}
