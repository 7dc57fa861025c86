package schema

import "time"

// DeploymentRecord is a single deployment run as stored in the history backend.
type DeploymentRecord struct {
	ID           int64        `json:"id"`
	Ref          string       `json:"ref"`
	Commit       string       `json:"commit"`
	TargetRepo   string       `json:"targetRepo"`
	TargetBranch string       `json:"targetBranch"`
	ChartCount   int          `json:"chartCount"`
	ChartsJSON   string       `json:"chartsJson"` // JSON-encoded []ChartPackage
	Status       DeployStatus `json:"status"`
	StartedAt    time.Time    `json:"startedAt"`
	FinishedAt   time.Time    `json:"finishedAt"`
}

// HistoryStatus holds status information about the deployment history store.
type HistoryStatus struct {
	Backend       string    `json:"backend"`
	Connected     bool      `json:"connected"`
	TotalRuns     int64     `json:"totalRuns"`
	LastRunTime   time.Time `json:"lastRunTime,omitempty"`
	OldestRunTime time.Time `json:"oldestRunTime,omitempty"`
	PublishedRuns int64     `json:"publishedRuns"`
	SkippedRuns   int64     `json:"skippedRuns"`
	FailedRuns    int64     `json:"failedRuns"`
}
