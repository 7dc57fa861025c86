package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chartpress/chartpress/core"
	"github.com/chartpress/chartpress/internal/contract"
	"github.com/chartpress/chartpress/internal/ledger"
	"github.com/chartpress/chartpress/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ledgerSetup loads minimal configuration needed for ledger operations.
// Ledger commands work on plain files and never touch git, helm, or the
// history store, so the full shared setup is not required.
func ledgerSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	cfg.TargetRepo = viper.GetString("target-repo")
	cfg.PagesHost = viper.GetString("pages-host")
	if cfg.PagesHost == "" {
		cfg.PagesHost = contract.DefaultPagesHost
	}
	cfg.LedgerPreamble = viper.GetString("ledger-preamble")

	return nil
}

// ledgerSetupWrapper wraps ledgerSetup to provide PreRunE for ledger commands.
func ledgerSetupWrapper(_ *cobra.Command, _ []string) error {
	return ledgerSetup()
}

// resolveEntryURI picks the release link for a tag: the --uri flag when
// given, otherwise derived from the configured target repository.
func resolveEntryURI(tag string) (string, error) {
	if uri := viper.GetString("uri"); uri != "" {
		return uri, nil
	}
	if cfg.TargetRepo == "" {
		return "", fmt.Errorf("either --uri or --target-repo is required to build the release link")
	}
	return core.ReleaseURI(cfg, tag), nil
}

// ledgerCmd groups the release-ledger tooling.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and edit Markdown release ledgers",
	Long: `Work with the Markdown release ledger outside of a deployment.

The ledger keeps one bullet entry per release tag, newest first:

  * [v1.1.0](https://github.com/acme/charts/releases/tag/v1.1.0)
  * [v1.0.0](https://github.com/acme/charts/releases/tag/v1.0.0)

Re-releasing an existing tag replaces its entry in place of adding a
duplicate, and stray bullet lines are cleaned up on every update.

Subcommands:
  preview - Print the updated ledger without writing anything
  update  - Apply a release entry to a ledger file in place`,
}

// ledgerPreviewCmd prints the transformed ledger to stdout.
var ledgerPreviewCmd = &cobra.Command{
	Use:   "preview <tag>",
	Short: "Print the ledger as it would look after recording a release",
	Long: `Apply a release entry to a ledger document and print the result.

The document is read from --document-file, or from stdin when the flag is
not set. Nothing is written back; use 'ledger update' for that.

Examples:
  # Preview against an existing README
  chartpress ledger preview v1.2.0 --document-file README.md --target-repo acme/charts

  # Preview from stdin with an explicit link
  cat README.md | chartpress ledger preview v1.2.0 --uri https://example.com/releases/v1.2.0`,
	Args:    cobra.ExactArgs(1),
	PreRunE: ledgerSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		tag := args[0]
		uri, err := resolveEntryURI(tag)
		if err != nil {
			return err
		}

		var doc string
		if path := viper.GetString("document-file"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("cannot read ledger %q: %w", path, err)
			}
			doc = string(data)
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("cannot read ledger from stdin: %w", err)
			}
			doc = string(data)
		}
		if doc == "" {
			doc = ledger.Seed(cfg.LedgerPreamble)
		}

		fmt.Print(ledger.Update(doc, schema.ReleaseEntry{Tag: tag, URI: uri}))
		return nil
	},
}

// ledgerUpdateCmd applies an entry to a ledger file in place.
var ledgerUpdateCmd = &cobra.Command{
	Use:   "update <file> <tag>",
	Short: "Record a release in a ledger file",
	Long: `Apply a release entry to the given ledger file, rewriting it in place.

A missing file is created and seeded with the configured preamble.

Examples:
  # Record v1.2.0 in the local README
  chartpress ledger update README.md v1.2.0 --target-repo acme/charts`,
	Args:    cobra.ExactArgs(2),
	PreRunE: ledgerSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		path, tag := args[0], args[1]
		uri, err := resolveEntryURI(tag)
		if err != nil {
			return err
		}

		doc := ledger.Seed(cfg.LedgerPreamble)
		if data, err := os.ReadFile(path); err == nil {
			doc = string(data)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("cannot read ledger %q: %w", path, err)
		}

		updated := ledger.Update(doc, schema.ReleaseEntry{Tag: tag, URI: uri})
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return fmt.Errorf("cannot write ledger %q: %w", path, err)
		}
		fmt.Printf("Recorded %s in %s\n", tag, path)
		return nil
	},
}
