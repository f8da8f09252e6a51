package platforms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
)

const bilibiliOK = `{
  "code": 0,
  "message": "0",
  "data": {
    "bvid": "BV1xx411c7mD",
    "title": "字幕君交流场所",
    "pic": "http://i0.hdslb.com/bfs/archive/cover.jpg",
    "desc": "",
    "dynamic": "第一行\n第二行",
    "owner": {"mid": 2, "name": "碧诗"},
    "stat": {"view": 2500, "like": 999, "coin": 1000, "favorite": 12345, "reply": null}
  }
}`

func bilibiliServer(t *testing.T, status int, body string, gotQuery *string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/x/web-interface/view" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != "Mozilla/5.0" {
			t.Errorf("User-Agent = %q, want browser-like", ua)
		}
		if gotQuery != nil {
			*gotQuery = r.URL.RawQuery
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestBilibiliFetchBV(t *testing.T) {
	var query string
	ts := bilibiliServer(t, http.StatusOK, bilibiliOK, &query)
	b := NewBilibili(ts.URL, ts.Client(), "Mozilla/5.0")

	meta, err := b.Fetch(context.Background(), domain.MatchResult{
		Platform:  NameBilibili,
		FullMatch: "www.bilibili.com/video/BV1xx411c7mD",
		Groups:    []string{"BV1xx411c7mD"},
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if query != "bvid=BV1xx411c7mD" {
		t.Errorf("query = %q, want bvid", query)
	}

	v := meta.(*domain.VideoMetadata)
	if v.Title != "字幕君交流场所" || v.Author != "碧诗" {
		t.Errorf("unexpected metadata %+v", v)
	}
	if v.Description != "第一行\n第二行" {
		t.Errorf("Description = %q, want dynamic fallback", v.Description)
	}
	if v.Comments != 0 {
		t.Errorf("Comments = %d, want 0 for null", v.Comments)
	}

	reply, err := b.Format(meta)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := strings.Join([]string{
		"📺 Bilibili 视频 | 字幕君交流场所",
		"👤 UP主：碧诗",
		"📝 简介：第一行 第二行",
		"💖 999  🪙 1K  ⭐ 12.3K",
		"👁️ 播放：2.5K  💬 评论：0",
		"───",
		"🔗 https://www.bilibili.com/video/BV1xx411c7mD",
	}, "\n")
	if reply.Text != want {
		t.Errorf("Format() text =\n%s\nwant\n%s", reply.Text, want)
	}
	if reply.ImageURL != "http://i0.hdslb.com/bfs/archive/cover.jpg" {
		t.Errorf("ImageURL = %q", reply.ImageURL)
	}
}

func TestBilibiliFetchAV(t *testing.T) {
	var query string
	ts := bilibiliServer(t, http.StatusOK, bilibiliOK, &query)
	b := NewBilibili(ts.URL, ts.Client(), "Mozilla/5.0")

	meta, err := b.Fetch(context.Background(), domain.MatchResult{
		Platform:  NameBilibili,
		FullMatch: "www.bilibili.com/video/av170001",
		Groups:    []string{"170001"},
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if query != "aid=170001" {
		t.Errorf("query = %q, want aid", query)
	}

	reply, err := b.Format(meta)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.HasSuffix(reply.Text, "🔗 https://www.bilibili.com/video/av170001") {
		t.Errorf("link line wrong:\n%s", reply.Text)
	}
}

func TestBilibiliFetchErrors(t *testing.T) {
	match := domain.MatchResult{FullMatch: "b23.tv/BV1", Groups: []string{"BV1"}}

	tests := []struct {
		name   string
		status int
		body   string
		kind   error
	}{
		{name: "api error code", status: http.StatusOK, body: `{"code": -404, "message": "啥都木有"}`, kind: domain.ErrUpstream},
		{name: "missing data", status: http.StatusOK, body: `{"code": 0}`, kind: domain.ErrUpstream},
		{name: "missing title", status: http.StatusOK, body: `{"code": 0, "data": {"owner": {"name": "x"}}}`, kind: domain.ErrUpstream},
		{name: "missing owner", status: http.StatusOK, body: `{"code": 0, "data": {"title": "x"}}`, kind: domain.ErrUpstream},
		{name: "malformed json", status: http.StatusOK, body: `<html>`, kind: domain.ErrUpstream},
		{name: "server error", status: http.StatusBadGateway, body: ``, kind: domain.ErrUpstream},
		{name: "not found", status: http.StatusNotFound, body: ``, kind: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := bilibiliServer(t, tt.status, tt.body, nil)
			b := NewBilibili(ts.URL, ts.Client(), "Mozilla/5.0")

			_, err := b.Fetch(context.Background(), match)
			if err == nil {
				t.Fatal("Fetch() should fail")
			}
			var fe *domain.FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("Fetch() error %T is not *domain.FetchError", err)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("Fetch() error = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestBilibiliTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := ts.URL
	ts.Close()

	b := NewBilibili(base, &http.Client{}, "Mozilla/5.0")
	_, err := b.Fetch(context.Background(), domain.MatchResult{FullMatch: "BV1", Groups: []string{"BV1"}})
	if !errors.Is(err, domain.ErrTransport) {
		t.Errorf("Fetch() error = %v, want transport error", err)
	}
}

func TestBilibiliFormatWithoutDescriptionOrCover(t *testing.T) {
	b := NewBilibili(DefaultBilibiliAPI, http.DefaultClient, "Mozilla/5.0")
	reply, err := b.Format(&domain.VideoMetadata{ID: "BV1", IDScheme: "BV", Title: "t", Author: "a"})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(reply.Text, "简介") {
		t.Errorf("description line should be omitted:\n%s", reply.Text)
	}
	if reply.ImageURL != "" {
		t.Errorf("ImageURL = %q, want empty", reply.ImageURL)
	}
	if _, err := b.Format(&domain.RepoMetadata{}); err == nil {
		t.Error("Format() with repo metadata should fail")
	}
}
