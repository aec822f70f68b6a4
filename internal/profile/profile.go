// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile builds a MetadataRecord for one GitHub repository.
// The top-level repository lookup is fatal; every other field fetch is
// individually fault-tolerant and degrades to a safe default, since a
// partial profile is still useful to the assessment stage.
package profile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/pdiddy/aiact/pkg/types"
)

// Profiler fetches repository metadata from the GitHub API.
type Profiler struct {
	cfg types.ProfileConfig
	gh  *github.Client
}

// New creates a Profiler from explicit configuration. When cfg.Token is set
// the client authenticates with a static token source; otherwise requests
// are anonymous (lower rate limits, same data).
func New(cfg types.ProfileConfig) *Profiler {
	cfg = cfg.WithDefaults()

	var hc *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		hc = oauth2.NewClient(context.Background(), ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = cfg.Timeout

	gh := github.NewClient(hc)
	gh.UserAgent = cfg.UserAgent

	return &Profiler{cfg: cfg, gh: gh}
}

// ParseRepoRef extracts the owner and repository name from a repository URL.
// Only the first two path segments are significant; trailing path content
// (tree/blob/issue links) is ignored. A ".git" suffix on the name is trimmed.
func ParseRepoRef(rawURL string) (owner, name string, err error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", types.ErrInvalidRepoRef, err)
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return "", "", types.ErrInvalidRepoRef
	}

	owner = segments[0]
	name = strings.TrimSuffix(segments[1], ".git")
	if owner == "" || name == "" {
		return "", "", types.ErrInvalidRepoRef
	}
	return owner, name, nil
}

// Profile fetches repository metadata and applies the keyword heuristics.
// It fails with types.ErrInvalidRepoRef for unparsable URLs and with
// *types.RepoNotFoundError when the repository lookup itself errors.
func (p *Profiler) Profile(ctx context.Context, rawURL string) (types.MetadataRecord, error) {
	owner, name, err := ParseRepoRef(rawURL)
	if err != nil {
		return types.MetadataRecord{}, err
	}

	repo, _, err := p.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return types.MetadataRecord{}, &types.RepoNotFoundError{Owner: owner, Name: name, Err: err}
	}

	rec := types.MetadataRecord{
		Owner:   owner,
		Name:    name,
		Topics:  repo.Topics,
		License: types.LicenseNone,
		Activity: types.ActivityCounters{
			Stars:      repo.GetStargazersCount(),
			Forks:      repo.GetForksCount(),
			OpenIssues: repo.GetOpenIssuesCount(),
		},
		SizeKB: repo.GetSize(),
	}
	if repo.License != nil && repo.GetLicense().GetSPDXID() != "" {
		rec.License = repo.GetLicense().GetSPDXID()
	}
	if repo.PushedAt != nil {
		rec.LastPush = repo.GetPushedAt().Time.UTC().Format(time.RFC3339)
	}

	readme := p.fetchReadme(ctx, owner, name)
	rec.ReadmeExcerpt = excerpt(readme, p.cfg.ReadmeExcerptChars)
	rec.Dependencies = ParseManifest(p.fetchFile(ctx, owner, name, p.cfg.ManifestPath))
	rec.LanguageHistogram = p.fetchLanguages(ctx, owner, name)
	rec.HasCI = p.hasCIConfig(ctx, owner, name)
	rec.Activity.Contributors = p.countContributors(ctx, owner, name)

	blob := searchBlob(readme, rec.Dependencies)
	rec.DomainTags = matchDomainTags(blob)
	rec.BiometricFlag = hasBiometricMention(blob)
	rec.HumanOversightFlag = hasOversightMention(blob)

	return rec, nil
}

// fetchReadme returns the decoded README content, or "" on any error.
// README absence is not fatal to a profile.
func (p *Profiler) fetchReadme(ctx context.Context, owner, name string) string {
	readme, _, err := p.gh.Repositories.GetReadme(ctx, owner, name, nil)
	if err != nil {
		return ""
	}
	content, err := readme.GetContent()
	if err != nil {
		return ""
	}
	return content
}

// fetchFile returns the decoded content of one repository file, or "" on any error.
func (p *Profiler) fetchFile(ctx context.Context, owner, name, path string) string {
	file, _, _, err := p.gh.Repositories.GetContents(ctx, owner, name, path, nil)
	if err != nil || file == nil {
		return ""
	}
	content, err := file.GetContent()
	if err != nil {
		return ""
	}
	return content
}

// fetchLanguages returns the language byte histogram, or nil on error.
func (p *Profiler) fetchLanguages(ctx context.Context, owner, name string) map[string]int {
	langs, _, err := p.gh.Repositories.ListLanguages(ctx, owner, name)
	if err != nil {
		return nil
	}
	return langs
}

// hasCIConfig probes the CI config directory. A missing directory yields
// false, never an error.
func (p *Profiler) hasCIConfig(ctx context.Context, owner, name string) bool {
	file, dir, _, err := p.gh.Repositories.GetContents(ctx, owner, name, p.cfg.CIConfigPath, nil)
	if err != nil {
		return false
	}
	return len(dir) > 0 || file != nil
}

// countContributors returns the contributor count, or 0 on error. With one
// contributor per page the last page index is the count, saving a full listing.
func (p *Profiler) countContributors(ctx context.Context, owner, name string) int {
	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	}
	contribs, resp, err := p.gh.Repositories.ListContributors(ctx, owner, name, opts)
	if err != nil {
		return 0
	}
	if resp != nil && resp.LastPage > 0 {
		return resp.LastPage
	}
	return len(contribs)
}

// ParseManifest extracts dependency lines from manifest text. Blank lines and
// lines starting with a comment marker are excluded; order is preserved.
func ParseManifest(text string) []string {
	var deps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		deps = append(deps, line)
	}
	return deps
}

// excerpt returns the first n characters of text, appending an ellipsis
// marker only when the text was longer.
func excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
