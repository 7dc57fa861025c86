package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/chartpress/chartpress/internal/contract"
	"github.com/chartpress/chartpress/schema"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// deploymentsTable is the table holding one row per deployment run.
const deploymentsTable = "chartpress_deployments"

// StoreImpl handles durable history storage using various database backends.
type StoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &StoreImpl{} // Compile-time check

// NewStore initializes and returns a new history store based on the backend type.
func NewStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite history at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL history: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=secret dbname=chartpress
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL history: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &StoreImpl{db: nil, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported history backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	// Create the table schema
	if _, err := db.Exec(getCreateTableQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", deploymentsTable, err)
	}

	return &StoreImpl{db: db, backend: backend, driverName: driverName}, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				ref VARCHAR(255) NOT NULL,
				commit_hash VARCHAR(64) NOT NULL,
				target_repo VARCHAR(255) NOT NULL,
				target_branch VARCHAR(255) NOT NULL,
				chart_count INT NOT NULL,
				charts_json TEXT NOT NULL,
				status VARCHAR(16) NOT NULL,
				started_at BIGINT NOT NULL,
				finished_at BIGINT NOT NULL
			);
		`, deploymentsTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				ref TEXT NOT NULL,
				commit_hash TEXT NOT NULL,
				target_repo TEXT NOT NULL,
				target_branch TEXT NOT NULL,
				chart_count INTEGER NOT NULL,
				charts_json TEXT NOT NULL,
				status TEXT NOT NULL,
				started_at BIGINT NOT NULL,
				finished_at BIGINT NOT NULL
			);
		`, deploymentsTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				ref TEXT NOT NULL,
				commit_hash TEXT NOT NULL,
				target_repo TEXT NOT NULL,
				target_branch TEXT NOT NULL,
				chart_count INTEGER NOT NULL,
				charts_json TEXT NOT NULL,
				status TEXT NOT NULL,
				started_at INTEGER NOT NULL,
				finished_at INTEGER NOT NULL
			);
		`, deploymentsTable)
	}
}

// RecordRun implements the HistoryStore interface.
func (s *StoreImpl) RecordRun(record schema.DeploymentRecord) (int64, error) {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return 0, nil
	}

	args := []any{
		record.Ref,
		record.Commit,
		record.TargetRepo,
		record.TargetBranch,
		record.ChartCount,
		record.ChartsJSON,
		string(record.Status),
		record.StartedAt.Unix(),
		record.FinishedAt.Unix(),
	}

	// PostgreSQL has no LastInsertId; use RETURNING instead.
	if s.backend == schema.PostgreSQLBackend {
		query := fmt.Sprintf(`INSERT INTO %s
			(ref, commit_hash, target_repo, target_branch, chart_count, charts_json, status, started_at, finished_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`, deploymentsTable)
		var id int64
		if err := s.db.QueryRow(query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to record deployment run: %w", err)
		}
		return id, nil
	}

	query := fmt.Sprintf(`INSERT INTO %s
		(ref, commit_hash, target_repo, target_branch, chart_count, charts_json, status, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, deploymentsTable)
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to record deployment run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns implements the HistoryStore interface.
func (s *StoreImpl) ListRuns(limit int) ([]schema.DeploymentRecord, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 25
	}

	query := fmt.Sprintf(`SELECT id, ref, commit_hash, target_repo, target_branch, chart_count, charts_json, status, started_at, finished_at
		FROM %s ORDER BY id DESC LIMIT %d`, deploymentsTable, limit)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployment runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.DeploymentRecord
	for rows.Next() {
		var r schema.DeploymentRecord
		var status string
		var startedAt, finishedAt int64
		if err := rows.Scan(&r.ID, &r.Ref, &r.Commit, &r.TargetRepo, &r.TargetBranch, &r.ChartCount, &r.ChartsJSON, &status, &startedAt, &finishedAt); err != nil {
			return nil, err
		}
		r.Status = schema.DeployStatus(status)
		r.StartedAt = time.Unix(startedAt, 0).UTC()
		r.FinishedAt = time.Unix(finishedAt, 0).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetStatus implements the HistoryStore interface.
func (s *StoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.backend == schema.NoneBackend || s.db == nil {
		return status, nil
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", deploymentsTable)
	if err := s.db.QueryRow(countQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	if status.TotalRuns == 0 {
		return status, nil
	}

	byStatus := fmt.Sprintf("SELECT status, COUNT(*) FROM %s GROUP BY status", deploymentsTable)
	rows, err := s.db.Query(byStatus)
	if err != nil {
		return status, fmt.Errorf("failed to get run counts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			return status, err
		}
		switch schema.DeployStatus(name) {
		case schema.PublishedStatus:
			status.PublishedRuns = count
		case schema.SkippedStatus:
			status.SkippedRuns = count
		case schema.FailedStatus:
			status.FailedRuns = count
		}
	}
	if err := rows.Err(); err != nil {
		return status, err
	}

	var lastTs, oldestTs int64
	rangeQuery := fmt.Sprintf("SELECT MAX(finished_at), MIN(finished_at) FROM %s", deploymentsTable)
	if err := s.db.QueryRow(rangeQuery).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get run time range: %w", err)
	}
	status.LastRunTime = time.Unix(lastTs, 0).UTC()
	status.OldestRunTime = time.Unix(oldestTs, 0).UTC()

	return status, nil
}

// Clear implements the HistoryStore interface.
func (s *StoreImpl) Clear() error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", deploymentsTable))
	return err
}

// Close implements the HistoryStore interface.
func (s *StoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
