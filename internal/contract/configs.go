package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chartpress/chartpress/schema"
)

// Default values for configuration.
const (
	DefaultTargetBranch = "gh-pages"
	DefaultChartsDir    = "charts"
	DefaultLedgerFile   = "README.md"
	DefaultPagesHost    = "https://github.com"
	DefaultCommitUser   = "chartpress"
	DefaultCommitEmail  = "chartpress@users.noreply.github.com"
	DefaultRemote       = "origin"
)

// Config holds the runtime configuration for a deployment run.
// This struct remains the "final, validated" config and is passed explicitly
// to the orchestration routine; nothing reads configuration ad hoc.
type Config struct {
	RepoPath string // Absolute path to the source repository root

	Token          string // Push credential, never logged
	TargetBranch   string
	TargetRepo     string // owner/name
	ChartsDir      string // Relative to RepoPath
	LedgerFile     string // Relative to the target branch root
	LedgerPreamble string // Optional first line for a newly created ledger
	PagesHost      string // Scheme + host for release links and clone URLs
	CommitUser     string
	CommitEmail    string
	DryRun         bool

	Output     schema.OutputMode
	OutputFile string
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// Clone returns a copy of the config, used by handlers that apply
// per-request overrides without mutating the shared base config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	Token          string `mapstructure:"token"`
	TargetBranch   string `mapstructure:"target-branch"`
	TargetRepo     string `mapstructure:"target-repo"`
	ChartsDir      string `mapstructure:"charts-dir"`
	LedgerFile     string `mapstructure:"ledger-file"`
	LedgerPreamble string `mapstructure:"ledger-preamble"`
	PagesHost      string `mapstructure:"pages-host"`
	CommitUser     string `mapstructure:"commit-user"`
	CommitEmail    string `mapstructure:"commit-email"`
	DryRun         bool   `mapstructure:"dry-run"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Color      string `mapstructure:"color"`

	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := resolveRepoPath(ctx, cfg, client, input); err != nil {
		return err
	}
	if err := resolveTargetRepo(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-git related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.LedgerPreamble = input.LedgerPreamble
	cfg.OutputFile = input.OutputFile
	cfg.DryRun = input.DryRun

	// --- 1. Credential ---
	cfg.Token = strings.TrimSpace(input.Token)
	if cfg.Token == "" {
		return fmt.Errorf("missing push credential. Set CHARTPRESS_TOKEN or the token key in .chartpress.yaml")
	}

	// --- 2. Target branch ---
	cfg.TargetBranch = strings.TrimSpace(input.TargetBranch)
	if cfg.TargetBranch == "" {
		cfg.TargetBranch = DefaultTargetBranch
	}

	// --- 3. Paths ---
	cfg.ChartsDir = strings.TrimSpace(input.ChartsDir)
	if cfg.ChartsDir == "" {
		cfg.ChartsDir = DefaultChartsDir
	}
	cfg.LedgerFile = strings.TrimSpace(input.LedgerFile)
	if cfg.LedgerFile == "" {
		cfg.LedgerFile = DefaultLedgerFile
	}
	if filepath.IsAbs(cfg.LedgerFile) || strings.HasPrefix(filepath.Clean(cfg.LedgerFile), "..") {
		return fmt.Errorf("ledger-file must be a path inside the target branch (received %q)", input.LedgerFile)
	}

	// --- 4. Host and commit identity ---
	cfg.PagesHost = strings.TrimRight(strings.TrimSpace(input.PagesHost), "/")
	if cfg.PagesHost == "" {
		cfg.PagesHost = DefaultPagesHost
	}
	if !strings.Contains(cfg.PagesHost, "://") {
		return fmt.Errorf("pages-host must include a scheme, e.g. https://github.com (received %q)", input.PagesHost)
	}
	cfg.CommitUser = input.CommitUser
	if cfg.CommitUser == "" {
		cfg.CommitUser = DefaultCommitUser
	}
	cfg.CommitEmail = input.CommitEmail
	if cfg.CommitEmail == "" {
		cfg.CommitEmail = DefaultCommitEmail
	}

	// --- 5. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 6. History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// resolveRepoPath resolves the source repository root from the positional
// path argument.
func resolveRepoPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	gitContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.RepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot
	return nil
}

// resolveTargetRepo fills in the target repository, deriving it from the
// origin remote of the source working copy when not configured explicitly.
func resolveTargetRepo(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	repo := strings.TrimSpace(input.TargetRepo)
	if repo == "" {
		url, err := client.RemoteURL(ctx, cfg.RepoPath, DefaultRemote)
		if err != nil {
			return fmt.Errorf("target-repo not set and the %s remote could not be resolved: %w", DefaultRemote, err)
		}
		repo, err = ParseRepoFromRemoteURL(url)
		if err != nil {
			return err
		}
	}
	if strings.Count(repo, "/") != 1 {
		return fmt.Errorf("target-repo must be in owner/name form (received %q)", repo)
	}
	cfg.TargetRepo = repo
	return nil
}
