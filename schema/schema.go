// Package schema has configs, models and shared constants for all parts of chartpress.
package schema

import (
	"fmt"
	"time"
)

// ReleaseEntry identifies the release being published to the ledger.
// Entries are immutable once derived from the triggering reference.
type ReleaseEntry struct {
	Tag string // Version-control reference with any refs/tags/ prefix stripped
	URI string // Fully qualified link to the release page
}

// Markdown renders the entry as a single ledger entry line (Markdown bullet + link).
func (e ReleaseEntry) Markdown() string {
	return fmt.Sprintf("* [%s](%s)", e.Tag, e.URI)
}

// ChartPackage describes one chart that was packaged during a deployment run.
type ChartPackage struct {
	Name    string `json:"name"`    // Chart directory name
	Path    string `json:"path"`    // Source directory relative to the charts dir
	Archive string `json:"archive"` // Packaged .tgz file name, empty if packaging failed
}

// DeployResult summarizes a single deployment run for output rendering
// and history tracking.
type DeployResult struct {
	Ref          string         `json:"ref"`          // Triggering reference (tag or branch, prefix stripped)
	Commit       string         `json:"commit"`       // Source HEAD commit hash
	TargetRepo   string         `json:"targetRepo"`   // owner/name of the destination repository
	TargetBranch string         `json:"targetBranch"` // Branch serving the packaged output
	LedgerFile   string         `json:"ledgerFile"`   // Ledger path within the target branch
	Charts       []ChartPackage `json:"charts"`       // Charts packaged in this run
	Status       DeployStatus   `json:"status"`
	DryRun       bool           `json:"dryRun"`
	StartedAt    time.Time      `json:"startedAt"`
	FinishedAt   time.Time      `json:"finishedAt"`
}

// Duration returns the wall-clock duration of the run.
func (r DeployResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
