// Package core has the deployment orchestration logic: resolving the
// triggering release, preparing the target working copy, updating the
// release ledger, packaging charts and publishing the result.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/chartpress/chartpress/internal/contract"
	"github.com/chartpress/chartpress/internal/ledger"
	"github.com/chartpress/chartpress/internal/outwriter"
	"github.com/chartpress/chartpress/schema"
)

// cnameFile is the custom-domain marker copied into the published tree.
const cnameFile = "CNAME"

// ExecuteDeploy runs one deployment: it packages every chart under the
// charts directory and publishes them, together with the regenerated
// repository index and the updated release ledger, to the target branch.
// It serves as the main entry point for the 'deploy' command.
//
// The steps are strictly sequential; the first failure aborts the run and
// the partially populated output clone is abandoned (each run clones fresh).
func ExecuteDeploy(ctx context.Context, cfg *contract.Config, git contract.GitClient, helm contract.HelmClient, mgr contract.HistoryManager) error {
	start := time.Now()

	entry, commit, err := ResolveRelease(ctx, cfg, git)
	if err != nil {
		return err
	}

	result := schema.DeployResult{
		Ref:          entry.Tag,
		Commit:       commit,
		TargetRepo:   cfg.TargetRepo,
		TargetBranch: cfg.TargetBranch,
		LedgerFile:   cfg.LedgerFile,
		DryRun:       cfg.DryRun,
		StartedAt:    start,
	}

	// fail records the aborted run before surfacing the error, so that
	// failed deployments show up in the history alongside published ones.
	fail := func(err error) error {
		result.Status = schema.FailedStatus
		result.FinishedAt = time.Now()
		recordRun(mgr, result)
		return err
	}

	// Self-deploy guard: pushing the target branch would re-trigger this
	// very run on repositories that deploy from the same repo.
	if entry.Tag == cfg.TargetBranch {
		result.Status = schema.SkippedStatus
		result.FinishedAt = time.Now()
		fmt.Printf("Ref %q is the target branch itself; nothing to deploy.\n", entry.Tag)
		recordRun(mgr, result)
		return outwriter.PrintDeployResult(result, cfg)
	}

	outputDir, err := prepareOutput(ctx, cfg, git)
	if err != nil {
		return fail(err)
	}

	if err := updateLedger(cfg, outputDir, entry); err != nil {
		return fail(err)
	}

	charts, err := packageCharts(ctx, cfg, helm, outputDir)
	if err != nil {
		return fail(err)
	}
	result.Charts = charts

	if err := helm.RepoIndex(ctx, outputDir, PagesURL(cfg), filepath.Join(outputDir, "index.yaml")); err != nil {
		return fail(err)
	}

	if err := copyCNAME(cfg.RepoPath, outputDir); err != nil {
		return fail(err)
	}

	if cfg.DryRun {
		result.Status = schema.SkippedStatus
	} else {
		message := fmt.Sprintf("Publish charts for %s@%s", entry.Tag, shortHash(commit))
		if err := git.Add(ctx, outputDir); err != nil {
			return fail(err)
		}
		if err := git.Commit(ctx, outputDir, message, cfg.CommitUser, cfg.CommitEmail); err != nil {
			return fail(err)
		}
		if err := git.Push(ctx, outputDir, cfg.TargetBranch); err != nil {
			return fail(err)
		}
		result.Status = schema.PublishedStatus
	}

	result.FinishedAt = time.Now()
	recordRun(mgr, result)
	return outwriter.PrintDeployResult(result, cfg)
}

// prepareOutput clones the target branch into a fresh temp directory.
func prepareOutput(ctx context.Context, cfg *contract.Config, git contract.GitClient) (string, error) {
	outputDir, err := os.MkdirTemp("", "chartpress-output-*")
	if err != nil {
		return "", fmt.Errorf("cannot create output directory: %w", err)
	}
	// MkdirTemp creates the directory, but git clone wants a fresh path.
	dest := filepath.Join(outputDir, "repo")
	if err := git.CloneBranch(ctx, CloneURL(cfg), cfg.TargetBranch, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// updateLedger applies the release-ledger transform to the ledger file in
// the output working copy. A missing file is treated as an empty document,
// seeded with the configured preamble.
func updateLedger(cfg *contract.Config, outputDir string, entry schema.ReleaseEntry) error {
	path := filepath.Join(outputDir, cfg.LedgerFile)

	doc := ledger.Seed(cfg.LedgerPreamble)
	if data, err := os.ReadFile(path); err == nil {
		doc = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("cannot read ledger %q: %w", cfg.LedgerFile, err)
	}

	updated := ledger.Update(doc, entry)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create ledger directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("cannot write ledger %q: %w", cfg.LedgerFile, err)
	}
	return nil
}

// packageCharts resolves dependencies and packages every chart directory
// found under the configured charts dir, writing archives into outputDir.
func packageCharts(ctx context.Context, cfg *contract.Config, helm contract.HelmClient, outputDir string) ([]schema.ChartPackage, error) {
	chartsRoot := filepath.Join(cfg.RepoPath, cfg.ChartsDir)
	dirs, err := listChartDirs(chartsRoot)
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no chart directories found under %q (expected subdirectories containing Chart.yaml)", chartsRoot)
	}

	charts := make([]schema.ChartPackage, 0, len(dirs))
	for _, dir := range dirs {
		chartDir := filepath.Join(chartsRoot, dir)
		if err := helm.DependencyUpdate(ctx, chartDir); err != nil {
			return nil, err
		}
		archive, err := helm.Package(ctx, chartDir, outputDir)
		if err != nil {
			return nil, err
		}
		charts = append(charts, schema.ChartPackage{
			Name:    dir,
			Path:    filepath.Join(cfg.ChartsDir, dir),
			Archive: archive,
		})
	}
	return charts, nil
}

// listChartDirs returns the names of subdirectories that contain a
// Chart.yaml, sorted for deterministic packaging order.
func listChartDirs(chartsRoot string) ([]string, error) {
	entries, err := os.ReadDir(chartsRoot)
	if err != nil {
		return nil, fmt.Errorf("cannot read charts directory %q: %w", chartsRoot, err)
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(chartsRoot, e.Name(), "Chart.yaml")); err == nil {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// copyCNAME copies the custom-domain marker file from the source tree into
// the output tree when present. Absence is not an error.
func copyCNAME(repoPath, outputDir string) error {
	src, err := os.Open(filepath.Join(repoPath, cnameFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", cnameFile, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(filepath.Join(outputDir, cnameFile))
	if err != nil {
		return fmt.Errorf("cannot write %s: %w", cnameFile, err)
	}
	defer func() { _ = dst.Close() }()

	_, err = io.Copy(dst, src)
	return err
}

// recordRun stores the run in the history backend. Recording is best effort
// once the push has already happened; failures degrade to a warning.
func recordRun(mgr contract.HistoryManager, result schema.DeployResult) {
	if mgr == nil {
		return
	}
	store := mgr.GetStore()
	if store == nil {
		return
	}

	chartsJSON, err := json.Marshal(result.Charts)
	if err != nil {
		contract.LogWarn("Cannot encode chart list for history", err)
		chartsJSON = []byte("[]")
	}

	record := schema.DeploymentRecord{
		Ref:          result.Ref,
		Commit:       result.Commit,
		TargetRepo:   result.TargetRepo,
		TargetBranch: result.TargetBranch,
		ChartCount:   len(result.Charts),
		ChartsJSON:   string(chartsJSON),
		Status:       result.Status,
		StartedAt:    result.StartedAt,
		FinishedAt:   result.FinishedAt,
	}
	if _, err := store.RecordRun(record); err != nil {
		contract.LogWarn("Cannot record deployment in history", err)
	}
}

// shortHash abbreviates a commit hash for commit messages and summaries.
func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
