package history

import (
	"errors"
	"fmt"

	"github.com/chartpress/chartpress/internal/contract"
	"github.com/chartpress/chartpress/internal/outwriter"
	"github.com/chartpress/chartpress/internal/parquet"
	"github.com/chartpress/chartpress/schema"
)

// exportListLimit caps how many runs a single export fetches.
const exportListLimit = 10000

// ExecuteHistoryExport exports stored deployment runs to a Parquet or CSV file.
func ExecuteHistoryExport(outputFile string, format schema.OutputMode) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if _, ok := schema.ValidExportModes[format]; !ok {
		return fmt.Errorf("invalid export format '%s'. must be parquet or csv", format)
	}

	// Get the history store
	store := Manager.GetStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no deployment history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total deployment runs: %d\n", status.TotalRuns)

	// Retrieve all deployment runs
	records, err := store.ListRuns(exportListLimit)
	if err != nil {
		return fmt.Errorf("failed to retrieve deployment runs: %w", err)
	}

	if format == schema.CSVOut {
		exportCfg := &contract.Config{Output: schema.CSVOut, OutputFile: outputFile}
		if err := outwriter.PrintDeploymentRecords(records, exportCfg); err != nil {
			return fmt.Errorf("failed to write deployment runs: %w", err)
		}
		fmt.Printf("Exported %d deployment runs to: %s\n", len(records), outputFile)
		return nil
	}

	// Convert to Parquet format and write
	runs := parquet.ConvertDeploymentRecords(records)
	if err := parquet.WriteDeploymentsParquet(runs, outputFile); err != nil {
		return fmt.Errorf("failed to write deployment runs: %w", err)
	}
	fmt.Printf("Exported %d deployment runs to: %s\n", len(runs), outputFile)

	return nil
}
