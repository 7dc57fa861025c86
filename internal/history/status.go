package history

import (
	"fmt"

	"github.com/chartpress/chartpress/schema"
)

// PrintHistoryStatus prints deployment history status information.
func PrintHistoryStatus(status schema.HistoryStatus) {
	fmt.Printf("History Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Published: %d\n", status.PublishedRuns)
		fmt.Printf("Skipped: %d\n", status.SkippedRuns)
		fmt.Printf("Failed: %d\n", status.FailedRuns)
	}
}
