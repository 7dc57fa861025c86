package core

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chartpress/chartpress/internal/contract"
	"github.com/chartpress/chartpress/schema"
)

// Environment variables consulted for the triggering reference. CI systems
// export the fully qualified ref; local runs fall back to git itself.
var refEnvVars = []string{"CHARTPRESS_REF", "GITHUB_REF"}

// ResolveRelease derives the ReleaseEntry for this run from the triggering
// version-control reference, plus the source HEAD commit hash.
func ResolveRelease(ctx context.Context, cfg *contract.Config, git contract.GitClient) (schema.ReleaseEntry, string, error) {
	ref, err := resolveRef(ctx, cfg, git)
	if err != nil {
		return schema.ReleaseEntry{}, "", err
	}

	commit, err := git.HeadHash(ctx, cfg.RepoPath)
	if err != nil {
		return schema.ReleaseEntry{}, "", err
	}

	entry := schema.ReleaseEntry{
		Tag: ref,
		URI: ReleaseURI(cfg, ref),
	}
	return entry, commit, nil
}

// resolveRef returns the bare tag or branch name that triggered this run.
func resolveRef(ctx context.Context, cfg *contract.Config, git contract.GitClient) (string, error) {
	for _, key := range refEnvVars {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return contract.StripRefPrefix(v), nil
		}
	}

	ref, err := git.CurrentRef(ctx, cfg.RepoPath)
	if err != nil {
		return "", err
	}
	ref = contract.StripRefPrefix(strings.TrimSpace(ref))
	if ref == "" {
		return "", fmt.Errorf("resolved an empty reference for %q", cfg.RepoPath)
	}
	return ref, nil
}

// ReleaseURI builds the release-page link recorded in the ledger:
// <host>/<owner>/<repo>/releases/tag/<tag>.
func ReleaseURI(cfg *contract.Config, tag string) string {
	return fmt.Sprintf("%s/%s/releases/tag/%s", cfg.PagesHost, cfg.TargetRepo, tag)
}

// CloneURL builds the token-authenticated URL used to clone and push the
// target repository. The token never appears anywhere else.
func CloneURL(cfg *contract.Config) string {
	scheme, host, ok := strings.Cut(cfg.PagesHost, "://")
	if !ok {
		// Validation guarantees a scheme; keep a sane fallback anyway.
		scheme, host = "https", cfg.PagesHost
	}
	return fmt.Sprintf("%s://x-access-token:%s@%s/%s.git", scheme, cfg.Token, host, cfg.TargetRepo)
}

// PagesURL returns the public URL the published charts are served from,
// used as the --url of the regenerated repository index. github.com targets
// serve from the owner's github.io domain; other hosts serve the repository
// path directly.
func PagesURL(cfg *contract.Config) string {
	owner, name, ok := strings.Cut(cfg.TargetRepo, "/")
	if ok && cfg.PagesHost == contract.DefaultPagesHost {
		return fmt.Sprintf("https://%s.github.io/%s", owner, name)
	}
	return fmt.Sprintf("%s/%s", cfg.PagesHost, cfg.TargetRepo)
}
