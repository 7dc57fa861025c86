//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestChartpressWithMySQL tests the chartpress history commands with a MySQL backend.
func TestChartpressWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "chartpress",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/chartpress?parseTime=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("CHARTPRESS_HISTORY_BACKEND", "mysql")
	_ = os.Setenv("CHARTPRESS_HISTORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("CHARTPRESS_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("CHARTPRESS_HISTORY_DB_CONNECT") }()

	runHistoryRoundTrip(t, "mysql")
}

// TestChartpressWithPostgres tests the chartpress history commands with a PostgreSQL backend.
func TestChartpressWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	// Set environment variables
	_ = os.Setenv("CHARTPRESS_HISTORY_BACKEND", "postgresql")
	_ = os.Setenv("CHARTPRESS_HISTORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("CHARTPRESS_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("CHARTPRESS_HISTORY_DB_CONNECT") }()

	runHistoryRoundTrip(t, "postgresql")
}

// runHistoryRoundTrip drives clear, status, list and migrate against the
// backend configured through the environment.
func runHistoryRoundTrip(t *testing.T, backend string) {
	t.Helper()

	_, err := runChartpressCommand(t, ".", "history", "clear")
	require.NoError(t, err)

	output, err := runChartpressCommand(t, ".", "history", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "History Backend: "+backend)
	assert.Contains(t, output, "Total Runs: 0")

	_, err = runChartpressCommand(t, ".", "history", "list")
	require.NoError(t, err)

	_, err = runChartpressCommand(t, ".", "history", "migrate")
	require.NoError(t, err)
}
