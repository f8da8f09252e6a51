package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkbot/internal/platforms"
)

type componentStatus struct {
	OK     bool     `json:"ok"`
	Mode   string   `json:"mode,omitempty"`
	Impact string   `json:"impact,omitempty"`
	Items  []string `json:"items,omitempty"`
	Error  string   `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"dispatcher": checkDispatcher(d),
			"youtube":    checkYouTubeKey(d),
			"cache":      checkCache(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if c, ok := components["dispatcher"]; ok && !c.OK {
		return "critical" // nothing to preview
	}
	for _, name := range []string{"cache", "youtube"} {
		if c, ok := components[name]; ok && !c.OK {
			return "degraded"
		}
	}
	return "operational"
}

func checkDispatcher(d deps.Deps) componentStatus {
	if d.Dispatcher == nil {
		return componentStatus{OK: false, Error: "not initialized"}
	}
	names := d.Dispatcher.Platforms()
	if len(names) == 0 {
		return componentStatus{OK: false, Error: "no platforms enabled"}
	}
	return componentStatus{OK: true, Items: names}
}

func checkYouTubeKey(d deps.Deps) componentStatus {
	enabled := false
	if d.Dispatcher != nil {
		for _, name := range d.Dispatcher.Platforms() {
			if name == platforms.NameYouTube {
				enabled = true
			}
		}
	}
	if !enabled {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	if d.YouTubeKey == nil || d.YouTubeKey.YouTubeKey() == "" {
		return componentStatus{OK: false, Mode: "unconfigured", Impact: "youtube-links-apologize", Error: "youtube_key is empty"}
	}
	return componentStatus{OK: true, Mode: "configured"}
}

func checkCache(ctx context.Context, d deps.Deps) componentStatus {
	if d.ReplyCache == nil {
		return componentStatus{OK: true, Mode: "disabled", Impact: "every-link-fetched"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.ReplyCache.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: "degraded", Impact: "every-link-fetched", Error: "unreachable"}
	}
	return componentStatus{OK: true, Mode: "redis"}
}
