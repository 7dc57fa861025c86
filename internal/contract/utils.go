package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chartpress/chartpress/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	PublishedColor = color.New(color.FgGreen, color.Bold) // a completed push
	SkippedColor   = color.New(color.FgYellow)            // self-deploy guard or dry run
	FailedColor    = color.New(color.FgRed, color.Bold)   // aborted run
)

// GetPlainStatus returns the plain text label for a deployment status.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainStatus(status schema.DeployStatus) string {
	switch status {
	case schema.PublishedStatus:
		return "Published"
	case schema.SkippedStatus:
		return "Skipped"
	case schema.FailedStatus:
		return "Failed"
	default:
		return string(status)
	}
}

// GetColorStatus returns a colored status label for console output (table).
// It uses GetPlainStatus to determine the string, and then applies the
// appropriate color.
func GetColorStatus(status schema.DeployStatus) string {
	text := GetPlainStatus(status)
	switch status {
	case schema.PublishedStatus:
		return PublishedColor.Sprint(text)
	case schema.SkippedStatus:
		return SkippedColor.Sprint(text)
	case schema.FailedStatus:
		return FailedColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It returns os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program. All failures surface as a
// single user-visible message; the run terminates without completing the push.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".chartpress_history.db"
	}
	return filepath.Join(homeDir, ".chartpress_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// StripRefPrefix removes the refs/tags/ or refs/heads/ prefix from a fully
// qualified git reference, returning the bare tag or branch name.
func StripRefPrefix(ref string) string {
	ref = strings.TrimPrefix(ref, "refs/tags/")
	ref = strings.TrimPrefix(ref, "refs/heads/")
	return ref
}

// ParseRepoFromRemoteURL extracts the owner/name pair from a git remote URL.
// Supported forms:
//
//	https://github.com/owner/name.git
//	git@github.com:owner/name.git
//	ssh://git@github.com/owner/name
func ParseRepoFromRemoteURL(url string) (string, error) {
	s := strings.TrimSpace(url)
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	if idx := strings.Index(s, "://"); idx >= 0 {
		s = s[idx+3:]
		// Drop userinfo if present
		if at := strings.Index(s, "@"); at >= 0 {
			s = s[at+1:]
		}
		parts := strings.Split(s, "/")
		if len(parts) >= 3 {
			return parts[len(parts)-2] + "/" + parts[len(parts)-1], nil
		}
		return "", fmt.Errorf("cannot derive owner/name from remote URL %q", url)
	}

	// scp-like syntax: git@host:owner/name
	if colon := strings.Index(s, ":"); colon >= 0 {
		path := s[colon+1:]
		parts := strings.Split(path, "/")
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			return parts[0] + "/" + parts[1], nil
		}
	}

	return "", fmt.Errorf("cannot derive owner/name from remote URL %q", url)
}
