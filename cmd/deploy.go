package cmd

import (
	"github.com/chartpress/chartpress/core"
	"github.com/chartpress/chartpress/internal/contract"
	"github.com/chartpress/chartpress/internal/history"
	"github.com/spf13/cobra"
)

// deployCmd runs one full deployment of the repository's charts.
var deployCmd = &cobra.Command{
	Use:   "deploy [repo-path]",
	Short: "Package all charts and publish them to the target branch",
	Long: `Run a full chart deployment for the repository at repo-path (default: current directory).

The deployment:
1. Resolves the triggering tag or branch (CHARTPRESS_REF, GITHUB_REF, or git itself)
2. Clones the target branch into a fresh working copy
3. Records the release in the Markdown ledger (one entry per tag, newest first)
4. Packages every chart directory and regenerates the repository index
5. Commits and pushes the result

A ref equal to the target branch is skipped so that pushing the published
branch cannot re-trigger a deployment of itself.

Examples:
  # Deploy from the current repository
  CHARTPRESS_TOKEN=... chartpress deploy

  # Inspect what would be published without pushing
  CHARTPRESS_TOKEN=... chartpress deploy --dry-run

  # Deploy to a different repository and branch
  chartpress deploy --target-repo acme/charts --target-branch gh-pages`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		defer func() { _ = history.CloseStore() }()

		git := contract.NewLocalGitClient()
		helm := contract.NewLocalHelmClient()
		return core.ExecuteDeploy(rootCtx, cfg, git, helm, history.Manager)
	},
}
