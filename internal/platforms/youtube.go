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
	// DefaultYouTubeAPI is the Google APIs host serving the YouTube Data API v3.
	DefaultYouTubeAPI = "https://www.googleapis.com"

	youtubeApology = "❌ YouTube 视频解析失败，请稍后重试"
)

// KeySource supplies the YouTube Data API key. It is consulted on every fetch.
type KeySource interface {
	YouTubeKey() string
}

// StaticKey is a fixed KeySource.
type StaticKey string

func (k StaticKey) YouTubeKey() string { return string(k) }

// YouTube previews youtube.com and youtu.be video links.
type YouTube struct {
	base      string
	client    *http.Client
	userAgent string
	keys      KeySource
}

func NewYouTube(base string, client *http.Client, userAgent string, keys KeySource) *YouTube {
	return &YouTube{
		base:      strings.TrimRight(base, "/"),
		client:    client,
		userAgent: userAgent,
		keys:      keys,
	}
}

func (y *YouTube) Name() string    { return NameYouTube }
func (y *YouTube) Apology() string { return youtubeApology }

func (y *YouTube) Patterns() []string {
	return []string{
		`(?:www\.|m\.)?youtube\.com/watch\?(?:[^\s#]*&)?v=([\w-]{11})`,
		`youtu\.be/([\w-]{11})`,
		`youtube\.com/shorts/([\w-]{11})`,
	}
}

type thumbnail struct {
	URL string `json:"url"`
}

type youtubeVideos struct {
	PageInfo struct {
		TotalResults looseCount `json:"totalResults"`
	} `json:"pageInfo"`
	Items []struct {
		ID      string `json:"id"`
		Snippet *struct {
			Title        *string              `json:"title"`
			ChannelTitle looseString          `json:"channelTitle"`
			Description  looseString          `json:"description"`
			Thumbnails   map[string]thumbnail `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// thumbnailOrder lists thumbnail sizes from preferred to last resort.
var thumbnailOrder = []string{"high", "medium", "default"}

func pickThumbnail(thumbs map[string]thumbnail) string {
	for _, size := range thumbnailOrder {
		if t, ok := thumbs[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

func (y *YouTube) Fetch(ctx context.Context, m domain.MatchResult) (domain.Metadata, error) {
	id := m.Group(0)
	if id == "" {
		return nil, domain.NewFetchError(NameYouTube, domain.ErrUpstream, fmt.Errorf("empty video id"))
	}

	key := ""
	if y.keys != nil {
		key = y.keys.YouTubeKey()
	}
	if key == "" {
		return nil, domain.NewFetchError(NameYouTube, domain.ErrConfig, fmt.Errorf("youtube_key is not configured"))
	}

	q := url.Values{}
	q.Set("id", id)
	q.Set("key", key)
	q.Set("part", "snippet")
	endpoint := y.base + "/youtube/v3/videos?" + q.Encode()

	var resp youtubeVideos
	if err := getJSON(ctx, y.client, NameYouTube, endpoint, y.userAgent, &resp); err != nil {
		return nil, err
	}
	if resp.PageInfo.TotalResults == 0 || len(resp.Items) == 0 {
		return nil, domain.NewFetchError(NameYouTube, domain.ErrNotFound, fmt.Errorf("video %s", id))
	}

	item := resp.Items[0]
	if item.Snippet == nil {
		return nil, missingField(NameYouTube, "items[0].snippet")
	}
	if item.Snippet.Title == nil {
		return nil, missingField(NameYouTube, "items[0].snippet.title")
	}

	return &domain.VideoMetadata{
		ID:          id,
		Title:       *item.Snippet.Title,
		Author:      string(item.Snippet.ChannelTitle),
		Description: string(item.Snippet.Description),
		CoverURL:    pickThumbnail(item.Snippet.Thumbnails),
	}, nil
}

func (y *YouTube) Format(meta domain.Metadata) (domain.Reply, error) {
	v, ok := meta.(*domain.VideoMetadata)
	if !ok || v == nil {
		return domain.Reply{}, unexpectedMetadata(NameYouTube, meta)
	}

	lines := []string{
		"▶️ YouTube 视频 | " + v.Title,
		"👤 频道：" + v.Author,
	}
	if desc := domain.DescriptionLine("📝 简介：", v.Description, ""); desc != "" {
		lines = append(lines, desc)
	}
	lines = append(lines,
		domain.Separator,
		"🔗 https://www.youtube.com/watch?v="+v.ID,
	)

	return domain.Reply{Text: strings.Join(lines, "\n"), ImageURL: v.CoverURL}, nil
}
