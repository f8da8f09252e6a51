package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrSnakeDoc/linkbot/internal/platforms"
)

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		wantStatus int
	}{
		{name: "platforms enabled", ready: true, wantStatus: http.StatusOK},
		{name: "no dispatcher", ready: false, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDeps(t)
			if !tt.ready {
				d.Dispatcher = nil
			}

			rec := httptest.NewRecorder()
			Readyz(d).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp readyzResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Ready != tt.ready {
				t.Errorf("ready = %v, want %v", resp.Ready, tt.ready)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz(testDeps(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var resp healthzResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "test" {
		t.Errorf("healthz = %+v", resp)
	}
}

func TestInfra(t *testing.T) {
	tests := []struct {
		name        string
		key         platforms.KeySource
		withYouTube bool
		wantMode    string
		wantYouTube string
	}{
		{name: "youtube disabled", withYouTube: false, wantMode: "operational", wantYouTube: "disabled"},
		{name: "youtube missing key", withYouTube: true, key: platforms.StaticKey(""), wantMode: "degraded", wantYouTube: "unconfigured"},
		{name: "youtube configured", withYouTube: true, key: platforms.StaticKey("k"), wantMode: "operational", wantYouTube: "configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := []platforms.Platform{stubPlatform{name: "stub"}}
			if tt.withYouTube {
				list = append(list, platforms.NewYouTube(platforms.DefaultYouTubeAPI, nil, "", tt.key))
			}
			d := testDeps(t, list...)
			d.YouTubeKey = tt.key

			rec := httptest.NewRecorder()
			Infra(d).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/infra", nil))

			var resp infraResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", resp.Mode, tt.wantMode)
			}
			if got := resp.Components["youtube"].Mode; got != tt.wantYouTube {
				t.Errorf("youtube mode = %s, want %s", got, tt.wantYouTube)
			}
			if got := resp.Components["cache"].Mode; got != "disabled" {
				t.Errorf("cache mode = %s, want disabled", got)
			}
		})
	}
}
