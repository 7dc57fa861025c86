package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// LocalHelmClient implements the HelmClient interface by executing the
// local 'helm' binary installed on the machine.
type LocalHelmClient struct{}

var _ HelmClient = &LocalHelmClient{} // Compile-time check

// NewLocalHelmClient creates a new instance of the local Helm client.
func NewLocalHelmClient() *LocalHelmClient {
	return &LocalHelmClient{}
}

// run executes a helm command and returns its stdout output.
func (c *LocalHelmClient) run(_ context.Context, args ...string) ([]byte, error) {
	cmd := exec.Command("helm", args...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("helm %s failed: %s", strings.Join(args, " "), stderr)
	} else if err != nil {
		return nil, fmt.Errorf("helm command failed: %w. Ensure Helm is installed and available on your PATH", err)
	}
	return out, nil
}

// DependencyUpdate implements the HelmClient interface.
func (c *LocalHelmClient) DependencyUpdate(ctx context.Context, chartDir string) error {
	_, err := c.run(ctx, "dependency", "update", chartDir)
	return err
}

// Package implements the HelmClient interface. Helm prints the path of the
// written archive on stdout; the file name is parsed out of that line.
func (c *LocalHelmClient) Package(ctx context.Context, chartDir, destDir string) (string, error) {
	out, err := c.run(ctx, "package", chartDir, "--destination", destDir)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.LastIndex(line, ":"); idx >= 0 {
		line = strings.TrimSpace(line[idx+1:])
	}
	if line == "" {
		return "", fmt.Errorf("helm package produced no archive path for %q", chartDir)
	}
	return filepath.Base(line), nil
}

// RepoIndex implements the HelmClient interface.
func (c *LocalHelmClient) RepoIndex(ctx context.Context, dir, url, mergeWith string) error {
	args := []string{"repo", "index", dir, "--url", url}
	if mergeWith != "" {
		if _, err := os.Stat(mergeWith); err == nil {
			args = append(args, "--merge", mergeWith)
		}
	}
	_, err := c.run(ctx, args...)
	return err
}
