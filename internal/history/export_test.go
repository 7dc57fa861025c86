package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chartpress/chartpress/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteHistoryExportValidation(t *testing.T) {
	err := ExecuteHistoryExport("", schema.ParquetOut)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file is required")

	err = ExecuteHistoryExport("out.parquet", schema.TextOut)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid export format")
}

func TestExecuteHistoryExportEmptyStore(t *testing.T) {
	require.NoError(t, InitStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "empty.db")))
	defer func() { _ = CloseStore() }()

	err := ExecuteHistoryExport(filepath.Join(t.TempDir(), "out.parquet"), schema.ParquetOut)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no deployment history found")
}

func TestExecuteHistoryExportParquet(t *testing.T) {
	require.NoError(t, InitStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "export.db")))
	defer func() { _ = CloseStore() }()

	_, err := Manager.GetStore().RecordRun(testRecord("v1.0.0", schema.PublishedStatus))
	require.NoError(t, err)

	outputFile := filepath.Join(t.TempDir(), "deployments.parquet")
	require.NoError(t, ExecuteHistoryExport(outputFile, schema.ParquetOut))

	info, err := os.Stat(outputFile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExecuteHistoryExportCSV(t *testing.T) {
	require.NoError(t, InitStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "exportcsv.db")))
	defer func() { _ = CloseStore() }()

	_, err := Manager.GetStore().RecordRun(testRecord("v2.0.0", schema.FailedStatus))
	require.NoError(t, err)

	outputFile := filepath.Join(t.TempDir(), "deployments.csv")
	require.NoError(t, ExecuteHistoryExport(outputFile, schema.CSVOut))

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "v2.0.0")
	assert.Contains(t, string(data), "Failed")
}
