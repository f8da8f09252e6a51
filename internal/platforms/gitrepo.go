package platforms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
)

const (
	// DefaultGitHubAPI is the public GitHub REST API base.
	DefaultGitHubAPI = "https://api.github.com"
	// DefaultGiteeAPI is the Gitee host; its REST API lives under /api/v5.
	DefaultGiteeAPI = "https://gitee.com"
)

// GitRepo previews repository links on a GitHub-compatible code host.
// GitHub and Gitee share it and differ only in host, API path and label.
type GitRepo struct {
	name      string
	label     string
	pattern   string
	repoPath  string // printf template taking owner and repo
	client    *http.Client
	userAgent string
}

// NewGitHub creates the GitHub platform. client should carry the Git fetch timeout.
func NewGitHub(base string, client *http.Client, userAgent string) *GitRepo {
	return &GitRepo{
		name:      NameGitHub,
		label:     "GitHub",
		pattern:   `github\.com/([^/\s]+)/([^/?#\s]+)`,
		repoPath:  strings.TrimRight(base, "/") + "/repos/%s/%s",
		client:    client,
		userAgent: userAgent,
	}
}

// NewGitee creates the Gitee platform. client should carry the Git fetch timeout.
func NewGitee(base string, client *http.Client, userAgent string) *GitRepo {
	return &GitRepo{
		name:      NameGitee,
		label:     "Gitee",
		pattern:   `gitee\.com/([^/\s]+)/([^/?#\s]+)`,
		repoPath:  strings.TrimRight(base, "/") + "/api/v5/repos/%s/%s",
		client:    client,
		userAgent: userAgent,
	}
}

func (g *GitRepo) Name() string       { return g.name }
func (g *GitRepo) Patterns() []string { return []string{g.pattern} }

func (g *GitRepo) Apology() string {
	return fmt.Sprintf("❌ %s 仓库信息获取失败，请稍后重试", g.label)
}

type repoResponse struct {
	Name        *string     `json:"name"`
	HTMLURL     *string     `json:"html_url"`
	Description looseString `json:"description"`
	Language    looseString `json:"language"`
	Stars       looseCount  `json:"stargazers_count"`
	Forks       looseCount  `json:"forks_count"`
	Watchers    looseCount  `json:"watchers_count"`
}

// cleanRepoName drops punctuation that chat text glues to a link, and a ".git" suffix.
func cleanRepoName(repo string) string {
	repo = strings.TrimRight(repo, `.,;:!)]}>"'`)
	return strings.TrimSuffix(repo, ".git")
}

func (g *GitRepo) Fetch(ctx context.Context, m domain.MatchResult) (domain.Metadata, error) {
	owner := m.Group(0)
	repo := cleanRepoName(m.Group(1))
	if owner == "" || repo == "" {
		return nil, domain.NewFetchError(g.name, domain.ErrUpstream, fmt.Errorf("incomplete repository path %q", m.FullMatch))
	}

	endpoint := fmt.Sprintf(g.repoPath, url.PathEscape(owner), url.PathEscape(repo))

	var resp repoResponse
	if err := getJSON(ctx, g.client, g.name, endpoint, g.userAgent, &resp); err != nil {
		return nil, err
	}
	if resp.Name == nil {
		return nil, missingField(g.name, "name")
	}
	if resp.HTMLURL == nil {
		return nil, missingField(g.name, "html_url")
	}

	return &domain.RepoMetadata{
		Platform:    g.label,
		Name:        *resp.Name,
		Owner:       owner,
		Description: string(resp.Description),
		Stars:       int64(resp.Stars),
		Forks:       int64(resp.Forks),
		Watchers:    int64(resp.Watchers),
		Language:    string(resp.Language),
		URL:         *resp.HTMLURL,
	}, nil
}

func (g *GitRepo) Format(meta domain.Metadata) (domain.Reply, error) {
	r, ok := meta.(*domain.RepoMetadata)
	if !ok || r == nil {
		return domain.Reply{}, unexpectedMetadata(g.name, meta)
	}

	language := r.Language
	if language == "" {
		language = "未知"
	}

	lines := []string{
		fmt.Sprintf("📦 %s 仓库 | %s", g.label, r.Name),
		"👤 作者：" + r.Owner,
		domain.DescriptionLine("📝 ", r.Description, "📝 暂无描述"),
		domain.Separator,
		fmt.Sprintf("⭐ %s | 🍴 %s", domain.FormatCount(r.Stars), domain.FormatCount(r.Forks)),
		"💻 语言：" + language,
		"🔗 " + r.URL,
	}
	return domain.Reply{Text: strings.Join(lines, "\n")}, nil
}
