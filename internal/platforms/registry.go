package platforms

import (
	"fmt"
	"net/http"
	"time"
)

// Platform names as used in configuration and match results.
const (
	NameBilibili = "bilibili"
	NameGitHub   = "github"
	NameGitee    = "gitee"
	NameYouTube  = "youtube"
)

// DefaultOrder is the match priority used when none is configured.
var DefaultOrder = []string{NameBilibili, NameGitHub, NameGitee, NameYouTube}

// Settings configures the platforms built by Build.
type Settings struct {
	UserAgent  string
	GitTimeout time.Duration // applies to GitHub and Gitee only

	BilibiliAPI string
	GitHubAPI   string
	GiteeAPI    string
	YouTubeAPI  string

	Keys KeySource
}

func (s Settings) withDefaults() Settings {
	if s.UserAgent == "" {
		s.UserAgent = "Mozilla/5.0"
	}
	if s.GitTimeout <= 0 {
		s.GitTimeout = 10 * time.Second
	}
	if s.BilibiliAPI == "" {
		s.BilibiliAPI = DefaultBilibiliAPI
	}
	if s.GitHubAPI == "" {
		s.GitHubAPI = DefaultGitHubAPI
	}
	if s.GiteeAPI == "" {
		s.GiteeAPI = DefaultGiteeAPI
	}
	if s.YouTubeAPI == "" {
		s.YouTubeAPI = DefaultYouTubeAPI
	}
	return s
}

// Build creates the platforms named in order, in that order.
// Unknown or repeated names are an error; names left out are disabled.
func Build(order []string, s Settings) ([]Platform, error) {
	if len(order) == 0 {
		order = DefaultOrder
	}
	s = s.withDefaults()

	// Video APIs get no client timeout; the caller's context bounds them.
	videoClient := &http.Client{}
	gitClient := &http.Client{Timeout: s.GitTimeout}

	seen := make(map[string]bool, len(order))
	list := make([]Platform, 0, len(order))
	for _, name := range order {
		if seen[name] {
			return nil, fmt.Errorf("platform %q listed twice", name)
		}
		seen[name] = true

		switch name {
		case NameBilibili:
			list = append(list, NewBilibili(s.BilibiliAPI, videoClient, s.UserAgent))
		case NameGitHub:
			list = append(list, NewGitHub(s.GitHubAPI, gitClient, s.UserAgent))
		case NameGitee:
			list = append(list, NewGitee(s.GiteeAPI, gitClient, s.UserAgent))
		case NameYouTube:
			list = append(list, NewYouTube(s.YouTubeAPI, videoClient, s.UserAgent, s.Keys))
		default:
			return nil, fmt.Errorf("unknown platform %q", name)
		}
	}
	return list, nil
}
