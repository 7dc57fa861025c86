// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/chartpress/chartpress/schema"
)

// GitClient defines the git operations needed by a deployment run.
// This allows the orchestration logic to be tested without needing a real
// git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command in the given working directory and returns
	// its output. Its use should be minimized in favor of the explicit
	// methods below.
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)

	// --- Source Repository Introspection ---

	// RepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	RepoRoot(ctx context.Context, contextPath string) (string, error)

	// CurrentRef returns the symbolic name of the checked-out reference
	// (branch name, or tag name when HEAD is detached at a tag).
	CurrentRef(ctx context.Context, dir string) (string, error)

	// HeadHash returns the current HEAD commit hash of the repository.
	HeadHash(ctx context.Context, dir string) (string, error)

	// RemoteURL returns the fetch URL of the named remote.
	RemoteURL(ctx context.Context, dir string, remote string) (string, error)

	// --- Target Repository Plumbing ---

	// CloneBranch performs a fresh shallow clone of one branch into dest.
	// A missing branch is not an error: the clone is initialized on a new
	// orphan branch of that name instead.
	CloneBranch(ctx context.Context, url, branch, dest string) error

	// Add stages all changes in the working copy.
	Add(ctx context.Context, dir string) error

	// Commit records staged changes with the given author identity.
	Commit(ctx context.Context, dir, message, user, email string) error

	// Push publishes the branch to the origin remote.
	Push(ctx context.Context, dir, branch string) error
}

// HelmClient defines the helm operations needed to package charts and
// regenerate the repository index. Chart semantics stay inside the helm
// binary; this interface only moves files around it.
type HelmClient interface {
	// DependencyUpdate resolves chart dependencies for one chart directory.
	DependencyUpdate(ctx context.Context, chartDir string) error

	// Package packages a chart directory into destDir and returns the
	// archive file name.
	Package(ctx context.Context, chartDir, destDir string) (string, error)

	// RepoIndex regenerates index.yaml for dir, merging mergeWith when it
	// is non-empty.
	RepoIndex(ctx context.Context, dir, url, mergeWith string) error
}

// HistoryStore defines the interface for recording deployment runs.
// This allows mocking the store for testing.
type HistoryStore interface {
	// RecordRun stores one completed (or skipped/failed) deployment run
	// and returns its unique ID.
	RecordRun(record schema.DeploymentRecord) (int64, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]schema.DeploymentRecord, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Clear removes all recorded runs.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}

// HistoryManager defines the interface for accessing the history store.
type HistoryManager interface {
	GetStore() HistoryStore
}
