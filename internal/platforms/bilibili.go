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
	// DefaultBilibiliAPI is the public Bilibili web API base.
	DefaultBilibiliAPI = "https://api.bilibili.com"

	bilibiliApology = "❌ 视频解析失败，请稍后重试"
)

// Bilibili previews www.bilibili.com and b23.tv video links.
type Bilibili struct {
	base      string
	client    *http.Client
	userAgent string
}

// NewBilibili creates the Bilibili platform. The API rejects default Go user agents,
// so userAgent should look like a browser.
func NewBilibili(base string, client *http.Client, userAgent string) *Bilibili {
	return &Bilibili{
		base:      strings.TrimRight(base, "/"),
		client:    client,
		userAgent: userAgent,
	}
}

func (b *Bilibili) Name() string    { return NameBilibili }
func (b *Bilibili) Apology() string { return bilibiliApology }

func (b *Bilibili) Patterns() []string {
	return []string{
		`www\.bilibili\.com/video/(BV\w+)`,
		`b23\.tv/(BV\w+)`,
		`www\.bilibili\.com/video/av(\d+)`,
	}
}

type bilibiliView struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		Title   *string     `json:"title"`
		Pic     looseString `json:"pic"`
		Desc    looseString `json:"desc"`
		Dynamic looseString `json:"dynamic"`
		Owner   *struct {
			Name *string `json:"name"`
		} `json:"owner"`
		Stat struct {
			View     looseCount `json:"view"`
			Like     looseCount `json:"like"`
			Coin     looseCount `json:"coin"`
			Favorite looseCount `json:"favorite"`
			Reply    looseCount `json:"reply"`
		} `json:"stat"`
	} `json:"data"`
}

// idScheme tells BV ids from numeric av ids. Both schemes share one rule, so the
// full matched text decides.
func idScheme(m domain.MatchResult) string {
	if strings.Contains(m.FullMatch, "BV") {
		return "BV"
	}
	return "av"
}

func (b *Bilibili) Fetch(ctx context.Context, m domain.MatchResult) (domain.Metadata, error) {
	id := m.Group(0)
	if id == "" {
		return nil, domain.NewFetchError(NameBilibili, domain.ErrUpstream, fmt.Errorf("empty video id"))
	}
	scheme := idScheme(m)

	q := url.Values{}
	if scheme == "BV" {
		q.Set("bvid", id)
	} else {
		q.Set("aid", id)
	}
	endpoint := b.base + "/x/web-interface/view?" + q.Encode()

	var resp bilibiliView
	if err := getJSON(ctx, b.client, NameBilibili, endpoint, b.userAgent, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, domain.NewFetchError(NameBilibili, domain.ErrUpstream,
			fmt.Errorf("api code %d: %s", resp.Code, resp.Message))
	}

	data := resp.Data
	switch {
	case data == nil:
		return nil, missingField(NameBilibili, "data")
	case data.Title == nil:
		return nil, missingField(NameBilibili, "data.title")
	case data.Owner == nil || data.Owner.Name == nil:
		return nil, missingField(NameBilibili, "data.owner.name")
	}

	desc := string(data.Desc)
	if desc == "" {
		desc = string(data.Dynamic)
	}

	return &domain.VideoMetadata{
		ID:          id,
		IDScheme:    scheme,
		Title:       *data.Title,
		Author:      *data.Owner.Name,
		Description: desc,
		CoverURL:    string(data.Pic),
		Views:       int64(data.Stat.View),
		Likes:       int64(data.Stat.Like),
		Coins:       int64(data.Stat.Coin),
		Favorites:   int64(data.Stat.Favorite),
		Comments:    int64(data.Stat.Reply),
	}, nil
}

func (b *Bilibili) Format(meta domain.Metadata) (domain.Reply, error) {
	v, ok := meta.(*domain.VideoMetadata)
	if !ok || v == nil {
		return domain.Reply{}, unexpectedMetadata(NameBilibili, meta)
	}

	lines := []string{
		"📺 Bilibili 视频 | " + v.Title,
		"👤 UP主：" + v.Author,
	}
	if desc := domain.DescriptionLine("📝 简介：", v.Description, ""); desc != "" {
		lines = append(lines, desc)
	}
	lines = append(lines,
		fmt.Sprintf("💖 %s  🪙 %s  ⭐ %s",
			domain.FormatCount(v.Likes), domain.FormatCount(v.Coins), domain.FormatCount(v.Favorites)),
		fmt.Sprintf("👁️ 播放：%s  💬 评论：%s",
			domain.FormatCount(v.Views), domain.FormatCount(v.Comments)),
		domain.Separator,
		"🔗 "+bilibiliVideoURL(v),
	)

	return domain.Reply{Text: strings.Join(lines, "\n"), ImageURL: v.CoverURL}, nil
}

func bilibiliVideoURL(v *domain.VideoMetadata) string {
	if v.IDScheme == "av" {
		return "https://www.bilibili.com/video/av" + v.ID
	}
	return "https://www.bilibili.com/video/" + v.ID
}
