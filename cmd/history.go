package cmd

import (
	"fmt"

	"github.com/chartpress/chartpress/internal/contract"
	"github.com/chartpress/chartpress/internal/history"
	"github.com/chartpress/chartpress/internal/outwriter"
	"github.com/chartpress/chartpress/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need store access without full shared setup,
// which would otherwise demand a token and a git working copy.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the store with the loaded config
	if err := history.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	cfg.OutputFile = viper.GetString("output-file")
	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err == nil {
		cfg.UseColors = colors
	}

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyCmd focused on deployment history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded deployment runs",
	Long: `Manage the deployment history recorded by 'chartpress deploy'.

Every run (published, skipped, or failed) is stored in the configured
backend together with its ref, commit, target and packaged charts.

Subcommands:
  list    - Show recorded runs, newest first
  status  - Show backend statistics and connection info
  clear   - Remove all recorded runs
  export  - Export runs to a Parquet file
  migrate - Run schema migrations on the history database

Examples:
  # List the last 10 deployments
  chartpress history list --limit 10

  # Export everything for analysis in DuckDB
  chartpress history export --output-file deployments.parquet`,
}

// historyListCmd lists recorded deployment runs.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recorded deployment runs, newest first",
	Long: `List deployment runs from the history backend.

Respects the global --output and --output-file flags, so runs can be
rendered as a table or exported as CSV or JSON.

Examples:
  # Show the last 25 runs as a table
  chartpress history list

  # Dump the last 100 runs as JSON
  chartpress history list --limit 100 --output json`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		records, err := history.Manager.GetStore().ListRuns(viper.GetInt("limit"))
		if err != nil {
			contract.LogFatal("Failed to list deployment runs", err)
		}
		if err := outwriter.PrintDeploymentRecords(records, cfg); err != nil {
			contract.LogFatal("Failed to print deployment runs", err)
		}
	},
}

// historyStatusCmd shows history store status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about the deployment history store.

Displays:
- Backend type and connection status
- Total number of recorded runs
- Per-outcome counts (published, skipped, failed)
- Last and oldest run timestamps

Examples:
  # Check history status
  chartpress history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := history.Manager.GetStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(status)
	},
}

// historyClearCmd clears the deployment history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded deployment runs",
	Long: `Delete all recorded deployment runs from the configured backend.

Use this when:
- The target repository was recreated or history is no longer relevant
- Testing deployments without polluting real history

Examples:
  # Clear SQLite history (default)
  chartpress history clear

  # Clear MySQL history (set connection string via env variable)
  CHARTPRESS_HISTORY_BACKEND=mysql CHARTPRESS_HISTORY_DB_CONNECT="..." chartpress history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.Manager.GetStore().Clear(); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyExportCmd exports the history to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export deployment history to a Parquet file",
	Long: `Export all recorded deployment runs to a Parquet file.

The resulting Parquet file can be analyzed with Apache Spark, Pandas (via
pyarrow), DuckDB, or any other Parquet-compatible tool. Use --format csv
for a plain CSV export instead.

Examples:
  # Export to deployments.parquet
  chartpress history export --output-file deployments.parquet

  # Export as CSV
  chartpress history export --output-file deployments.csv --format csv`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		format := schema.OutputMode(viper.GetString("format"))
		if err := history.ExecuteHistoryExport(viper.GetString("output-file"), format); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs schema migrations on the history database.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations on the history database",
	Long: `Apply schema migrations to the deployment history database.

By default this migrates to the latest version. Use --target-version to
migrate to a specific version, or 0 to roll everything back.

Examples:
  # Migrate to the latest schema
  chartpress history migrate

  # Roll back all migrations
  chartpress history migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Migrations open their own connection; only config loading is needed.
		return loadConfigFile()
	},
	Run: func(_ *cobra.Command, _ []string) {
		backend := schema.DatabaseBackend(viper.GetString("history-backend"))
		connStr := viper.GetString("history-db-connect")
		if err := history.MigrateHistory(backend, connStr, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to migrate history database", err)
		}
	},
}
