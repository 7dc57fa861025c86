// Package parquet provides data structures and functions for exporting
// deployment history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/chartpress/chartpress/schema"
	"github.com/parquet-go/parquet-go"
)

// DeploymentRun represents a single chart deployment run.
// This struct maps to the chartpress_deployments database table.
type DeploymentRun struct {
	// DeploymentID is the unique identifier for this deployment run
	DeploymentID int64 `parquet:"deployment_id,snappy"`

	// Ref is the tag or branch name that triggered the deployment
	Ref string `parquet:"ref,snappy"`

	// CommitHash is the source HEAD commit the charts were packaged from
	CommitHash string `parquet:"commit_hash,snappy"`

	// TargetRepo is the owner/name of the repository the charts were published to
	TargetRepo string `parquet:"target_repo,snappy"`

	// TargetBranch is the branch holding the published chart index
	TargetBranch string `parquet:"target_branch,snappy"`

	// ChartCount is the number of chart archives produced by this run
	ChartCount int32 `parquet:"chart_count,snappy"`

	// ChartsJSON contains the JSON-encoded packaged chart list (nullable)
	ChartsJSON *string `parquet:"charts_json,optional,snappy"`

	// Status is the run outcome: published, skipped, or failed
	Status string `parquet:"status,snappy"`

	// StartedAt is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartedAt time.Time `parquet:"started_at,snappy"`

	// FinishedAt is when the run completed (stored as TIMESTAMP with nanosecond precision)
	FinishedAt time.Time `parquet:"finished_at,snappy"`

	// DurationMs is the run duration in milliseconds
	DurationMs int32 `parquet:"duration_ms,snappy"`
}

// ConvertDeploymentRecords converts stored history records to their Parquet
// representation.
func ConvertDeploymentRecords(records []schema.DeploymentRecord) []DeploymentRun {
	runs := make([]DeploymentRun, 0, len(records))
	for _, r := range records {
		var chartsJSON *string
		if r.ChartsJSON != "" {
			value := r.ChartsJSON
			chartsJSON = &value
		}
		runs = append(runs, DeploymentRun{
			DeploymentID: r.ID,
			Ref:          r.Ref,
			CommitHash:   r.Commit,
			TargetRepo:   r.TargetRepo,
			TargetBranch: r.TargetBranch,
			ChartCount:   int32(r.ChartCount),
			ChartsJSON:   chartsJSON,
			Status:       string(r.Status),
			StartedAt:    r.StartedAt,
			FinishedAt:   r.FinishedAt,
			DurationMs:   int32(r.FinishedAt.Sub(r.StartedAt).Milliseconds()),
		})
	}
	return runs
}

// WriteDeploymentsParquet writes a slice of DeploymentRun structs to a Parquet file.
func WriteDeploymentsParquet(data []DeploymentRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the DeploymentRun struct tags
	writer := parquet.NewGenericWriter[DeploymentRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
