package domain

// MatchResult is the outcome of a successful link match for one message.
type MatchResult struct {
	// Platform is the name of the rule that fired.
	Platform string

	// FullMatch is the whole text matched by the pattern.
	FullMatch string

	// Groups holds the pattern's capture groups, in order.
	Groups []string
}

// Group returns capture group i (0-based), or "" when absent.
func (m MatchResult) Group(i int) string {
	if i < 0 || i >= len(m.Groups) {
		return ""
	}
	return m.Groups[i]
}

// Metadata is the parsed API response a platform fetched for a match.
// It is implemented by *VideoMetadata and *RepoMetadata.
type Metadata interface {
	metadata()
}

// VideoMetadata describes a video on Bilibili or YouTube.
type VideoMetadata struct {
	ID       string
	IDScheme string // "BV" or "av" for Bilibili, empty elsewhere

	Title       string
	Author      string
	Description string
	CoverURL    string

	Views     int64
	Likes     int64
	Coins     int64
	Favorites int64
	Comments  int64
}

// RepoMetadata describes a repository on GitHub or Gitee.
type RepoMetadata struct {
	Platform    string
	Name        string
	Owner       string
	Description string
	Stars       int64
	Forks       int64
	Watchers    int64
	Language    string
	URL         string
}

func (*VideoMetadata) metadata() {}
func (*RepoMetadata) metadata()  {}
