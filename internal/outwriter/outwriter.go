// Package outwriter has output and writer logic for deployment summaries.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/chartpress/chartpress/internal/contract"
	"github.com/chartpress/chartpress/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

// PrintDeployResult renders a deployment run using the configured output
// format (text table, CSV, or JSON).
func PrintDeployResult(result schema.DeployResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDeployCSV(w, result)
		}, "Wrote CSV")
	default:
		return printDeployTable(result, cfg)
	}
}

// PrintDeploymentRecords renders stored history records using the
// configured output format.
func PrintDeploymentRecords(records []schema.DeploymentRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRecordsCSV(w, records)
		}, "Wrote CSV")
	default:
		return printRecordsTable(records, cfg)
	}
}

// writeWithFile handles the common pattern of opening a file, writing to
// it, and cleaning up.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "%s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeDeployCSV writes one row per packaged chart.
func writeDeployCSV(w io.Writer, result schema.DeployResult) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write([]string{"ref", "commit", "target_repo", "target_branch", "chart", "archive", "status"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	status := contract.GetPlainStatus(result.Status)
	if len(result.Charts) == 0 {
		return csvWriter.Write([]string{result.Ref, result.Commit, result.TargetRepo, result.TargetBranch, "", "", status})
	}
	for _, chart := range result.Charts {
		rec := []string{result.Ref, result.Commit, result.TargetRepo, result.TargetBranch, chart.Name, chart.Archive, status}
		if err := csvWriter.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeRecordsCSV writes one row per stored deployment run.
func writeRecordsCSV(w io.Writer, records []schema.DeploymentRecord) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write([]string{"id", "ref", "commit", "target_repo", "target_branch", "charts", "status", "started_at", "finished_at"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		rec := []string{
			strconv.FormatInt(r.ID, 10),
			r.Ref,
			r.Commit,
			r.TargetRepo,
			r.TargetBranch,
			strconv.Itoa(r.ChartCount),
			contract.GetPlainStatus(r.Status),
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.FinishedAt.Format("2006-01-02 15:04:05"),
		}
		if err := csvWriter.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// printDeployTable prints the run summary as a chart-per-row table.
func printDeployTable(result schema.DeployResult, cfg *contract.Config) error {
	status := contract.GetPlainStatus(result.Status)
	if cfg.UseColors {
		status = contract.GetColorStatus(result.Status)
	}

	fmt.Printf("Release %s (%s) -> %s@%s\n", result.Ref, shorten(result.Commit, 7), result.TargetRepo, result.TargetBranch)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Chart", "Source", "Archive", "Status"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxWidth := GetMaxTableCellWidth()
	var data [][]string
	for _, chart := range result.Charts {
		data = append(data, []string{
			truncateCell(chart.Name, maxWidth),
			truncateCell(chart.Path, maxWidth),
			truncateCell(chart.Archive, maxWidth),
			status,
		})
	}
	if len(data) == 0 {
		data = append(data, []string{"-", "-", "-", status})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// The ledger is only touched once the run gets past the self-deploy
	// guard, which is every published run and every dry run.
	if result.Status == schema.PublishedStatus || result.DryRun {
		fmt.Printf("Ledger %s updated with %s\n", result.LedgerFile, result.Ref)
	}
	fmt.Printf("Deployment completed in %v (dry run: %v)\n", result.Duration().Round(time.Millisecond), result.DryRun)
	return nil
}

// printRecordsTable prints stored history runs as a table, newest first.
func printRecordsTable(records []schema.DeploymentRecord, cfg *contract.Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"ID", "Ref", "Commit", "Target", "Charts", "Status", "Finished"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxWidth := GetMaxTableCellWidth()
	var data [][]string
	for _, r := range records {
		status := contract.GetPlainStatus(r.Status)
		if cfg.UseColors {
			status = contract.GetColorStatus(r.Status)
		}
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			truncateCell(r.Ref, maxWidth),
			shorten(r.Commit, 7),
			truncateCell(r.TargetRepo+"@"+r.TargetBranch, maxWidth),
			strconv.Itoa(r.ChartCount),
			status,
			r.FinishedAt.Format("2006-01-02 15:04"),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Printf("Showing %d deployment runs\n", len(records))
	return nil
}

// GetMaxTableCellWidth calculates the maximum width for variable-length
// table cells based on terminal width.
func GetMaxTableCellWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		// Fallback to conservative default for narrow terminals and CI
		termWidth = 80
	}

	// Reserve space for fixed columns, borders and padding
	available := termWidth - 40
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}

// truncateCell truncates a cell value to a maximum width with ellipsis prefix.
func truncateCell(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return s
}

// shorten abbreviates a hash-like value to n characters.
func shorten(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
