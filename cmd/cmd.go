// Package cmd defines the command-line interface for chartpress.
package cmd

import (
	"github.com/chartpress/chartpress/internal/contract"
	"github.com/chartpress/chartpress/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the ledger subcommands to the parent ledger command
	ledgerCmd.AddCommand(ledgerPreviewCmd)
	ledgerCmd.AddCommand(ledgerUpdateCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("token", "", "Push credential for the target repository (prefer CHARTPRESS_TOKEN)")
	rootCmd.PersistentFlags().String("target-branch", contract.DefaultTargetBranch, "Branch the packaged charts are published to")
	rootCmd.PersistentFlags().String("target-repo", "", "Target repository in owner/name form (derived from the origin remote when empty)")
	rootCmd.PersistentFlags().String("charts-dir", contract.DefaultChartsDir, "Directory containing chart subdirectories, relative to the repo root")
	rootCmd.PersistentFlags().String("ledger-file", contract.DefaultLedgerFile, "Markdown release ledger path inside the target branch")
	rootCmd.PersistentFlags().String("ledger-preamble", "", "First line written to a freshly created ledger")
	rootCmd.PersistentFlags().String("pages-host", contract.DefaultPagesHost, "Scheme and host used for release links and clone URLs")
	rootCmd.PersistentFlags().String("commit-user", contract.DefaultCommitUser, "Author name for publish commits")
	rootCmd.PersistentFlags().String("commit-email", contract.DefaultCommitEmail, "Author email for publish commits")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Prepare everything but skip the final commit and push")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored status labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of historyListCmd to Viper
	historyListCmd.Flags().Int("limit", 25, "Number of runs to display, newest first")
	if err := viper.BindPFlags(historyListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history list flags", err)
	}

	// Bind all flags of historyExportCmd to Viper
	historyExportCmd.Flags().String("format", string(schema.ParquetOut), "Export format: parquet or csv")
	if err := viper.BindPFlags(historyExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history export flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}

	// Bind the shared ledger flags to Viper
	ledgerCmd.PersistentFlags().String("uri", "", "Release link recorded next to the tag (derived from target-repo when empty)")
	if err := viper.BindPFlags(ledgerCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding ledger flags", err)
	}

	// Bind all flags of ledgerPreviewCmd to Viper
	ledgerPreviewCmd.Flags().String("document-file", "", "Ledger document to read (stdin when empty)")
	if err := viper.BindPFlags(ledgerPreviewCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ledger preview flags", err)
	}
}
